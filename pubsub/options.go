package pubsub

import (
	"errors"
	"time"
)

type Option func(*Options)

type Options struct {
	orderByPost             bool
	publisherDelayThreshold time.Duration
	publisherCountThreshold int
	publisherByteThreshold  int
	pubsubClient            pubsubClient
}

func newOptions() *Options {
	return &Options{
		orderByPost:             true,
		publisherDelayThreshold: 10 * time.Millisecond,
		publisherCountThreshold: 100,
		publisherByteThreshold:  1e6, // 1 MB
	}
}

func (o *Options) validate() error {
	if o.publisherDelayThreshold < 0 {
		return errors.New("publisher delay threshold must be non-negative")
	}

	if o.publisherCountThreshold <= 0 {
		return errors.New("publisher count threshold must be greater than zero")
	}

	if o.publisherByteThreshold <= 0 {
		return errors.New("publisher byte threshold must be greater than zero")
	}

	return nil
}

// WithOrderByPost enables message ordering with the post ID as ordering key.
// The subscription must have message ordering enabled for this to take
// effect. Default: true.
func WithOrderByPost(enabled bool) Option {
	return func(o *Options) {
		o.orderByPost = enabled
	}
}

func WithPublisherDelayThreshold(d time.Duration) Option {
	return func(o *Options) {
		o.publisherDelayThreshold = d
	}
}

func WithPublisherCountThreshold(n int) Option {
	return func(o *Options) {
		o.publisherCountThreshold = n
	}
}

func WithPublisherByteThreshold(n int) Option {
	return func(o *Options) {
		o.publisherByteThreshold = n
	}
}

// WithPubSubClient sets a custom pubsubClient implementation for testing.
func WithPubSubClient(client pubsubClient) Option {
	return func(o *Options) {
		o.pubsubClient = client
	}
}
