package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/middleware"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/response"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/repository"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/service"
)

// Handler handles HTTP requests for search service.
type Handler struct {
	searchService   service.SearchService
	bookmarkService service.BookmarkService
	auth            *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService, bookmarkService service.BookmarkService, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		searchService:   searchService,
		bookmarkService: bookmarkService,
		auth:            auth,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/search", h.Search)
		api.GET("/search/:category", h.SearchCategory)
	}

	bookmarks := api.Group("/bookmarks")
	bookmarks.Use(h.auth.RequireAuth())
	{
		bookmarks.GET("", h.ListBookmarks)
		bookmarks.POST("", h.AddBookmark)
		bookmarks.DELETE("/:type/:id", h.RemoveBookmark)
	}
}

// Search handles the general search across every category.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.searchService.Search(ctx, &req)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, req.Query).Msg("search failed")
		response.InternalError(c, "search failed")
		return
	}

	response.Success(c, result)
}

// SearchCategory handles a single-category search.
func (h *Handler) SearchCategory(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	category, err := searchapi.ParseCategory(c.Param("category"))
	if err != nil || category == searchapi.CategoryAll {
		response.NotFound(c, "unknown search category")
		return
	}

	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.searchService.SearchCategory(ctx, category, &req)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownCategory) {
			response.NotFound(c, "unknown search category")
			return
		}
		l.Error().Err(err).Str(log.FieldQuery, req.Query).Str(log.FieldCategory, string(category)).Msg("category search failed")
		response.InternalError(c, "search failed")
		return
	}

	response.Success(c, result)
}

// ListBookmarks returns the caller's bookmarks.
func (h *Handler) ListBookmarks(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	list, err := h.bookmarkService.List(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("list bookmarks failed")
		response.InternalError(c, "failed to list bookmarks")
		return
	}

	response.Success(c, list)
}

// AddBookmark saves a search result for the caller.
func (h *Handler) AddBookmark(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.AddBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.bookmarkService.Add(ctx, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidItemType):
			response.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrBookmarkExists):
			response.Conflict(c, err.Error())
		default:
			l.Error().Err(err).Str(log.FieldUserID, userID).Msg("add bookmark failed")
			response.InternalError(c, "failed to add bookmark")
		}
		return
	}

	response.Created(c, b)
}

// RemoveBookmark deletes one of the caller's bookmarks.
func (h *Handler) RemoveBookmark(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	err := h.bookmarkService.Remove(ctx, userID, c.Param("type"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidItemType):
			response.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrBookmarkNotFound):
			response.NotFound(c, err.Error())
		default:
			l.Error().Err(err).Str(log.FieldUserID, userID).Msg("remove bookmark failed")
			response.InternalError(c, "failed to remove bookmark")
		}
		return
	}

	response.NoContent(c)
}
