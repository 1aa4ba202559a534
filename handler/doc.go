// Package handler implements the posts API.
//
// A [Handler] takes a transport-independent [Request], dispatches on its
// method and returns a [Response] envelope:
//
//   - GET without an id lists every stored record.
//   - GET with an id returns the assembled post, or 404.
//   - POST creates a post from a JSON payload and returns 201.
//   - Any other method returns 405 with an Allow header.
//
// Validation failures are 400 and store failures 500. [WithLegacyErrors]
// turns every failure into a 500.
//
// After a post is created, a post.created event is published to every
// target given with [WithNotifyTargets], using the first notifier whose
// ShouldHandle accepts the target. Publishing runs concurrently and its
// failures are logged only.
//
// [Handler.HandleAPIGatewayV2] adapts the handler to AWS Lambda HTTP API
// events and [Handler.GinHandler] to a gin router.
package handler
