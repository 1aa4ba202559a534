package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"cloud.google.com/go/pubsub/v2"
	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
)

// EventTypeAttribute is the message attribute carrying the event type.
const EventTypeAttribute = "event_type"

// topicNameRegex validates Pub/Sub topic resource names.
// Project IDs may contain colons for domain-prefixed projects (e.g., google.com:my-project).
// Topic names must start with a letter, followed by 2-254 word characters, dots, underscores, or hyphens.
var topicNameRegex = regexp.MustCompile(`^projects\/([a-z][a-z0-9-:.]{5,29})\/topics\/([a-zA-Z][\w._-]{2,254})$`)

// Notifier publishes post events to Pub/Sub topics.
type Notifier struct {
	gcpClient *pubsub.Client
	client    pubsubClient

	// The publisher cache is unbounded and assumes a small, finite set of topics.
	publishers     map[string]pubsubPublisher
	publishersLock sync.RWMutex

	opts        *Options
	initialized atomic.Bool
}

var _ types.Notifier = (*Notifier)(nil)

func NewNotifier(c *pubsub.Client, opts ...Option) *Notifier {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	return &Notifier{
		gcpClient:  c,
		publishers: make(map[string]pubsubPublisher),
		opts:       options,
	}
}

func (n *Notifier) Init(_ context.Context) (*Notifier, error) {
	if n.initialized.Load() {
		return n, nil
	}

	if err := n.opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid pub/sub notifier options: %w", err)
	}

	if n.opts.pubsubClient != nil {
		n.client = n.opts.pubsubClient
	} else {
		if n.gcpClient == nil {
			return nil, errors.New("pub/sub client cannot be nil")
		}

		n.client = newRealPubSubClient(n.gcpClient)
	}

	n.initialized.Store(true)

	return n, nil
}

// Close stops all cached publishers, flushing any pending messages.
func (n *Notifier) Close() {
	n.publishersLock.Lock()
	defer n.publishersLock.Unlock()

	for topic, publisher := range n.publishers {
		publisher.Stop()
		delete(n.publishers, topic)
	}
}

func (n *Notifier) ShouldHandle(_ context.Context, target string) bool {
	return IsTopicName(target)
}

// IsTopicName reports whether target is a full Pub/Sub topic resource name,
// projects/<project>/topics/<topic>.
func IsTopicName(target string) bool {
	return topicNameRegex.MatchString(target)
}

// Notify publishes event to the specified Pub/Sub topic and waits for the
// server to acknowledge it.
// Callers should use ShouldHandle to validate the topic name before calling this method.
func (n *Notifier) Notify(ctx context.Context, topic string, event *types.PostEvent, logger types.Logger) error {
	if !n.initialized.Load() {
		return errors.New("pub/sub notifier not initialized")
	}

	if event == nil {
		return errors.New("event cannot be nil")
	}

	if logger == nil {
		return errors.New("logger cannot be nil")
	}

	publisher := n.getPublisher(topic)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal post event: %w", err)
	}

	msg := &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			EventTypeAttribute: event.Type,
		},
	}

	if n.opts.orderByPost {
		msg.OrderingKey = event.PostID
	}

	result := publisher.Publish(ctx, msg)

	serverID, err := result.Get(ctx)
	if err != nil {
		// A failed publish pauses its ordering key until it is resumed.
		if n.opts.orderByPost {
			publisher.ResumePublish(event.PostID)
		}

		return fmt.Errorf("failed to publish message to pub/sub topic %s: %w", topic, err)
	}

	logger = logger.WithField("topic", topic)

	if n.opts.orderByPost {
		logger.Debugf("Post event %s published as message %s with ordering key %s", event.ID, serverID, event.PostID)
	} else {
		logger.Debugf("Post event %s published as message %s", event.ID, serverID)
	}

	return nil
}

//nolint:ireturn // Returns interface for dependency injection pattern
func (n *Notifier) getPublisher(topic string) pubsubPublisher {
	// Fast path: read lock
	n.publishersLock.RLock()
	publisher, exists := n.publishers[topic]
	n.publishersLock.RUnlock()

	if exists {
		return publisher
	}

	n.publishersLock.Lock()
	defer n.publishersLock.Unlock()

	// Double-check after acquiring write lock
	if publisher, exists = n.publishers[topic]; exists {
		return publisher
	}

	publisher = n.client.Publisher(topic)
	publisher.SetEnableMessageOrdering(n.opts.orderByPost)
	publisher.SetDelayThreshold(n.opts.publisherDelayThreshold)
	publisher.SetCountThreshold(n.opts.publisherCountThreshold)
	publisher.SetByteThreshold(n.opts.publisherByteThreshold)

	n.publishers[topic] = publisher

	return publisher
}
