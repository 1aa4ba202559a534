package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/google/uuid"
)

type Option func(*Options)

type Options struct {
	logger        types.Logger
	defaults      types.Defaults
	legacyErrors  bool
	notifiers     []types.Notifier
	notifyTargets []string
	clock         func() time.Time
	newEventID    func() string
}

func newOptions() *Options {
	return &Options{
		logger:     types.NewNoopLogger(),
		defaults:   types.DefaultDefaults(),
		clock:      time.Now,
		newEventID: uuid.NewString,
	}
}

func (o *Options) validate() error {
	if o.logger == nil {
		return errors.New("logger cannot be nil")
	}

	if o.clock == nil {
		return errors.New("clock cannot be nil")
	}

	if o.newEventID == nil {
		return errors.New("event ID generator cannot be nil")
	}

	for i, n := range o.notifiers {
		if n == nil {
			return fmt.Errorf("notifier %d is nil", i)
		}
	}

	for _, target := range o.notifyTargets {
		if target == "" {
			return errors.New("notify targets cannot contain empty values")
		}
	}

	if len(o.notifyTargets) > 0 && len(o.notifiers) == 0 {
		return errors.New("notify targets are set but no notifiers are configured")
	}

	return nil
}

// WithLogger sets the logger used for request and notification logs.
func WithLogger(logger types.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithDefaults sets the values given to optional metadata fields that are
// absent from a create request.
func WithDefaults(defaults types.Defaults) Option {
	return func(o *Options) {
		o.defaults = defaults
	}
}

// WithLegacyErrors makes every failure a 500 response with the generic
// error body, as the first version of the service did.
func WithLegacyErrors(enabled bool) Option {
	return func(o *Options) {
		o.legacyErrors = enabled
	}
}

// WithNotifiers sets the notifiers used to publish post events.
func WithNotifiers(notifiers ...types.Notifier) Option {
	return func(o *Options) {
		o.notifiers = notifiers
	}
}

// WithNotifyTargets sets the queue URLs or topic names that receive a
// post.created event after every successful create.
func WithNotifyTargets(targets ...string) Option {
	return func(o *Options) {
		o.notifyTargets = targets
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}

// WithEventIDGenerator replaces the random UUID generator used for event IDs.
func WithEventIDGenerator(fn func() string) Option {
	return func(o *Options) {
		o.newEventID = fn
	}
}
