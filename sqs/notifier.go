package sqs

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// EventTypeAttribute is the message attribute carrying the event type, so
// queue consumers can filter without parsing the body.
const EventTypeAttribute = "event_type"

// Notifier publishes post events to SQS queues. It implements the
// types.Notifier interface and routes each event to either a FIFO or a
// standard SQS queue based on the target URL.
//
// For FIFO queues the notifier sets the message group ID to the post ID and
// derives a deduplication ID from a SHA-256 hash of the post ID and event ID,
// so a retried notification is delivered once.
//
// Create a Notifier with [NewNotifier] and call [Notifier.Init] once before
// publishing. Init is not thread-safe; all other methods are safe for
// concurrent use after Init returns.
type Notifier struct {
	client      sqsClient
	awsCfg      *aws.Config
	opts        *Options
	initialized bool
}

var _ types.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier that uses awsCfg to construct its SQS client
// during [Notifier.Init].
//
// NewNotifier does not connect to AWS. Call [Notifier.Init] before publishing.
func NewNotifier(awsCfg *aws.Config, opts ...Option) *Notifier {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	return &Notifier{
		awsCfg: awsCfg,
		opts:   options,
	}
}

// Init validates the options and constructs the underlying SQS client from
// the AWS configuration supplied to [NewNotifier]. It returns the receiver so
// that initialization can be chained:
//
//	notifier, err := sqs.NewNotifier(&awsCfg).Init(ctx)
//
// Init is idempotent: subsequent calls on an already-initialized notifier are
// no-ops.
func (n *Notifier) Init(_ context.Context) (*Notifier, error) {
	if n.initialized {
		return n, nil
	}

	if err := n.opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid SQS notifier options: %w", err)
	}

	if n.opts.sqsClient != nil {
		n.client = n.opts.sqsClient
	} else {
		if n.awsCfg == nil {
			return nil, errors.New("AWS config cannot be nil")
		}

		n.client = sqs.NewFromConfig(*n.awsCfg, func(o *sqs.Options) {
			o.Retryer = retry.AddWithMaxBackoffDelay(o.Retryer, n.opts.sqsAPIMaxRetryBackoffDelay)
			o.Retryer = retry.AddWithMaxAttempts(o.Retryer, n.opts.sqsAPIMaxRetryAttempts)
		})
	}

	n.initialized = true

	return n, nil
}

// ShouldHandle reports whether target is an SQS queue URL, see [IsQueueURL].
func (n *Notifier) ShouldHandle(_ context.Context, target string) bool {
	return IsQueueURL(target)
}

// IsQueueURL reports whether target is an SQS queue URL, i.e. begins with
// "https://sqs.".
func IsQueueURL(target string) bool {
	return strings.HasPrefix(target, "https://sqs.")
}

// Notify marshals event as JSON and sends it to the SQS queue at queueURL.
// The queue type is detected from the URL suffix:
//   - FIFO queues (URL ends with ".fifo"): the message group ID is the post
//     ID and the deduplication ID is a hash of the post ID and event ID.
//   - Standard queues: the message is sent without a group or dedup ID,
//     delayed by [WithDelaySeconds] when set.
func (n *Notifier) Notify(ctx context.Context, queueURL string, event *types.PostEvent, logger types.Logger) error {
	if !n.initialized {
		return errors.New("SQS notifier not initialized")
	}

	if event == nil {
		return errors.New("event cannot be nil")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal post event: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			EventTypeAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	}

	logger = logger.WithField("queue_url", queueURL)

	if strings.HasSuffix(queueURL, ".fifo") {
		input.MessageGroupId = aws.String(event.PostID)
		input.MessageDeduplicationId = aws.String(hash(event.PostID, event.ID))

		if _, err := n.client.SendMessage(ctx, input); err != nil {
			return fmt.Errorf("failed to send SQS message: %w", err)
		}

		logger.Debugf("Post event %s sent to FIFO SQS queue with group ID %s and dedup ID %s", event.ID, *input.MessageGroupId, *input.MessageDeduplicationId)

		return nil
	}

	if n.opts.delaySeconds > 0 {
		input.DelaySeconds = n.opts.delaySeconds
	}

	if _, err := n.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send SQS message: %w", err)
	}

	logger.Debugf("Post event %s sent to standard SQS queue", event.ID)

	return nil
}

func hash(input ...string) string {
	h := sha256.New()

	for _, s := range input {
		h.Write([]byte(s))
		h.Write([]byte{0}) // null byte delimiter to prevent hash collisions
	}

	bs := h.Sum(nil)

	return base64.URLEncoding.EncodeToString(bs)
}
