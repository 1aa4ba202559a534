// Package sqs publishes post events to AWS SQS queues.
//
// [Notifier] implements the types.Notifier interface. It handles targets
// that are SQS queue URLs (https://sqs.<region>.amazonaws.com/...) and sends
// each event as a JSON message body with an event_type message attribute.
//
//	notifier, err := sqs.NewNotifier(&awsCfg).Init(ctx)
//	if err != nil {
//	    return err
//	}
//
//	if notifier.ShouldHandle(ctx, queueURL) {
//	    err = notifier.Notify(ctx, queueURL, event, logger)
//	}
//
// # FIFO queues
//
// Queue URLs ending in ".fifo" are FIFO queues. Events for the same post
// share a message group, and the deduplication ID is derived from the post
// ID and event ID, so retried sends within the deduplication window are
// dropped by SQS.
//
// # Retries
//
// The SDK retryer is tuned with [WithSqsAPIMaxRetryAttempts] and
// [WithSqsAPIMaxRetryBackoffDelay].
package sqs
