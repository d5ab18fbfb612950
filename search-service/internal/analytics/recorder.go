package analytics

import (
	"context"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/log"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/pubsub"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/cache"
)

// Recorder consumes search.performed events and feeds the popular query
// ranking used for suggestions.
type Recorder struct {
	sub    pubsub.Subscriber
	store  cache.SuggestionStore
	doneCh chan struct{}
}

// NewRecorder creates a recorder reading from sub into store.
func NewRecorder(sub pubsub.Subscriber, store cache.SuggestionStore) *Recorder {
	return &Recorder{
		sub:    sub,
		store:  store,
		doneCh: make(chan struct{}),
	}
}

// Done returns a channel that is closed when Run exits.
func (r *Recorder) Done() <-chan struct{} { return r.doneCh }

// Run consumes events until ctx is done or the subscription closes.
func (r *Recorder) Run(ctx context.Context) error {
	defer close(r.doneCh)

	events, err := r.sub.Subscribe(ctx, pubsub.ChannelSearchPerformed)
	if err != nil {
		return err
	}
	defer r.sub.Unsubscribe(context.Background(), pubsub.ChannelSearchPerformed)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, ev *pubsub.Event) {
	l := log.L()
	if ev.Type != pubsub.EventSearchPerformed {
		return
	}

	var p pubsub.SearchPerformedPayload
	if err := ev.UnmarshalPayload(&p); err != nil {
		l.Warn().Err(err).Msg("analytics: invalid payload")
		return
	}
	// Queries that found nothing make poor suggestions.
	if p.Total <= 0 {
		return
	}

	if err := r.store.Record(ctx, p.Query); err != nil {
		l.Error().Err(err).Str(log.FieldQuery, p.Query).Msg("analytics: record query failed")
	}
}
