package handler

import (
	"encoding/json"
	"net/http"
)

const (
	headerContentType = "Content-Type"
	headerAllow       = "Allow"
	contentTypeJSON   = "application/json"

	msgPostCreated         = "Full post created with split items"
	msgPostNotFound        = "Post not found"
	msgMethodNotAllowed    = "Method Not Allowed"
	msgInternalServerError = "Internal Server Error"
)

// Request is the transport-independent description of an incoming request.
type Request struct {
	// Method is the raw HTTP method, e.g. "GET".
	Method string

	// Path is the request path, used for logging only.
	Path string

	// PostID is the id path parameter. Empty for collection requests.
	PostID string

	// Body is the decoded request body.
	Body []byte
}

// Response is the envelope returned for every request.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(statusCode int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		statusCode = http.StatusInternalServerError
		body = []byte(`{"error":"` + msgInternalServerError + `"}`)
	}

	return &Response{
		StatusCode: statusCode,
		Headers:    map[string]string{headerContentType: contentTypeJSON},
		Body:       string(body),
	}
}

func errorResponse(statusCode int, msg string) *Response {
	return jsonResponse(statusCode, errorBody{Error: msg})
}
