package handler

import (
	"context"
	"encoding/base64"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/aws/aws-lambda-go/events"
)

// PathParameterID is the route parameter holding the post id.
const PathParameterID = "id"

// RequestFromAPIGatewayV2 converts an HTTP API (payload v2) event into a
// [Request], decoding a base64 body when the gateway encoded it.
func RequestFromAPIGatewayV2(ev *events.APIGatewayV2HTTPRequest) (*Request, error) {
	body := []byte(ev.Body)

	if ev.IsBase64Encoded && ev.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, types.NewValidationError("", "request body is not valid base64")
		}

		body = decoded
	}

	return &Request{
		Method: ev.RequestContext.HTTP.Method,
		Path:   ev.RawPath,
		PostID: ev.PathParameters[PathParameterID],
		Body:   body,
	}, nil
}

// ToAPIGatewayV2 converts a [Response] into an HTTP API (payload v2) response.
func (r *Response) ToAPIGatewayV2() events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}

// HandleAPIGatewayV2 is the Lambda entry point. Failures are reported in the
// response, so the returned error is always nil.
func (h *Handler) HandleAPIGatewayV2(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	req, err := RequestFromAPIGatewayV2(&ev)
	if err != nil {
		logger := h.opts.logger.WithFields(map[string]any{
			"method": ev.RequestContext.HTTP.Method,
			"path":   ev.RawPath,
		})

		resp := h.failure(err, logger)
		logger.WithField("status", resp.StatusCode).Info("Request handled")

		return resp.ToAPIGatewayV2(), nil
	}

	return h.Handle(ctx, req).ToAPIGatewayV2(), nil
}
