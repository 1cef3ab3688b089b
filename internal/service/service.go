// Package service holds the membership rules: roles, communities and members.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commons/commons/internal/events"
	"github.com/commons/commons/internal/idgen"
	"github.com/commons/commons/internal/metrics"
	"github.com/commons/commons/internal/repository"
)

// DefaultStoreTimeout bounds every service call.
const DefaultStoreTimeout = 5 * time.Second

// Options carries the collaborators shared by all services. Zero values get defaults.
type Options struct {
	Logger       *slog.Logger
	Metrics      metrics.Recorder
	Events       events.Publisher
	IDs          idgen.Generator
	StoreTimeout time.Duration
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewNoop()
	}
	if o.Events == nil {
		o.Events = events.Noop{}
	}
	if o.IDs == nil {
		o.IDs = idgen.NewULID()
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// base is embedded by every service.
type base struct {
	store   repository.Store
	ids     idgen.Generator
	events  events.Publisher
	metrics metrics.Recorder
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func newBase(store repository.Store, opts Options, component string) base {
	opts = opts.withDefaults()
	return base{
		store:   store,
		ids:     opts.IDs,
		events:  opts.Events,
		metrics: opts.Metrics,
		logger:  opts.Logger.With("component", component),
		timeout: opts.StoreTimeout,
		now:     opts.Now,
	}
}

// run executes fn under the store timeout and translates its error.
func (b *base) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	b.metrics.ObserveStoreDuration(time.Since(start))

	return b.translate(op, err)
}

// translate maps store failures onto service errors.
func (b *base) translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}

	switch {
	case errors.Is(err, ErrDependencyNotFound),
		errors.Is(err, ErrNotAllowed),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrSlugTaken),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, repository.ErrSlugExists):
		b.metrics.IncSlugConflict()
		return fmt.Errorf("%s: %w", op, ErrSlugTaken)
	case errors.Is(err, repository.ErrMemberExists):
		return fmt.Errorf("%s: %w", op, ErrAlreadyMember)
	case errors.Is(err, repository.ErrReferenceNotFound):
		return fmt.Errorf("%s: %w", op, ErrInvalidReference)
	case errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		b.metrics.IncStoreUnavailable()
		b.logger.Warn("store unavailable", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// publish emits a committed event. Failures are logged and counted, never returned.
func (b *base) publish(ctx context.Context, eventType string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), events.PublishTimeout)
	defer cancel()

	err := b.events.Publish(ctx, events.Event{Type: eventType, Payload: payload, OccurredAt: b.now()})
	if err != nil {
		b.logger.Warn("failed to publish event", "type", eventType, "error", err)
		b.metrics.IncEventPublished(metrics.StatusDropped)
		return
	}
	b.metrics.IncEventPublished(metrics.StatusSuccess)
}

// resolve turns a not-found lookup into a ReferenceError for param.
func resolve(err error, notFound error, param string) error {
	if errors.Is(err, notFound) {
		return &ReferenceError{Param: param}
	}
	return err
}
