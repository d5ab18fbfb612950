package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	pkgconfig "github.com/GrandEmpereur/Bookish-sub000/pkg/config"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/database"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/jwt"
	pkglog "github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/middleware"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/pubsub"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/analytics"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/cache"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/config"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/handler"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/repository"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/service"
)

func main() {
	// Load configuration
	cfg, v, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "search-service",
	})
	logger := pkglog.L()

	// Follow log level changes without a restart
	pkgconfig.Watch(v, func(v *viper.Viper) {
		level := v.GetString("log.level")
		pkglog.SetLevel(level)
		l := pkglog.L()
		l.Info().Str("level", level).Msg("log level updated")
	})

	// Initialize Elasticsearch client
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create elasticsearch client")
	}

	// Verify ES connection
	res, err := esClient.Info()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to elasticsearch")
	}
	res.Body.Close()
	logger.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")

	// Initialize repositories
	searchRepo := repository.NewESSearchRepository(esClient, repository.DefaultIndexSpecs(map[searchapi.Category]string{
		searchapi.CategoryUsers:     cfg.Elasticsearch.IndexUsers,
		searchapi.CategoryBooks:     cfg.Elasticsearch.IndexBooks,
		searchapi.CategoryClubs:     cfg.Elasticsearch.IndexClubs,
		searchapi.CategoryBookLists: cfg.Elasticsearch.IndexBookLists,
		searchapi.CategoryAuthors:   cfg.Elasticsearch.IndexAuthors,
	}))

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&domain.BookmarkModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	bookmarkRepo := repository.NewGormBookmarkRepository(db)

	// Initialize Redis cache and suggestions
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	searchCache := cache.NewRedisSearchCache(redisClient, cfg.Cache.Prefix)
	defer searchCache.Close()
	suggestions := cache.NewRedisSuggestionStore(redisClient, cfg.Suggestions.Key)
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	// Initialize event bus
	bus, err := pubsub.NewPubSub(cfg.PubSub)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pubsub")
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := analytics.NewRecorder(bus, suggestions)
	go func() {
		if err := recorder.Run(ctx); err != nil {
			l := pkglog.L()
			l.Error().Err(err).Msg("analytics recorder stopped")
		}
	}()

	// Initialize services
	searchService := service.NewSearchService(searchRepo, searchCache, service.Options{
		CacheTTL:        cfg.Cache.TTL,
		Suggestions:     suggestions,
		SuggestionLimit: cfg.Suggestions.Limit,
		Publisher:       bus,
	})
	bookmarkService := service.NewBookmarkService(bookmarkRepo)

	jwtManager, err := jwt.NewManager(cfg.JWT.Secret, 0, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create jwt manager")
	}

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(searchService, bookmarkService, middleware.NewAuthMiddleware(jwtManager))

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Register routes
	httpHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("search-service starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down search-service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	select {
	case <-recorder.Done():
	case <-shutdownCtx.Done():
	}
}
