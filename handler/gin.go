package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes matches the API Gateway payload limit.
const maxBodyBytes = 10 << 20

// GinHandler adapts the handler to gin. Register it for every method on
// both the collection and the item route, e.g. "/posts" and "/posts/:id".
func (h *Handler) GinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody{Error: "Request body too large"})
			return
		}

		resp := h.Handle(c.Request.Context(), &Request{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			PostID: c.Param(PathParameterID),
			Body:   body,
		})

		for k, v := range resp.Headers {
			c.Header(k, v)
		}

		c.Data(resp.StatusCode, contentTypeJSON, []byte(resp.Body))
	}
}
