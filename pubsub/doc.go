// Package pubsub publishes post events to Google Cloud Pub/Sub topics.
//
// [Notifier] implements the types.Notifier interface for targets of the form
// projects/<project>/topics/<topic>. Each event is sent as a JSON message
// with an event_type attribute. By default the post ID is used as ordering
// key, so events for one post are delivered in order to subscriptions that
// have message ordering enabled.
//
// Publishers are created lazily per topic and cached. Call [Notifier.Close]
// on shutdown to flush pending messages.
package pubsub
