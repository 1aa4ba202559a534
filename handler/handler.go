package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"golang.org/x/sync/errgroup"
)

// Handler serves the posts API on top of a [types.DB]. It is safe for
// concurrent use.
type Handler struct {
	db   types.DB
	opts *Options
}

// New creates a Handler backed by db.
func New(db types.DB, opts ...Option) (*Handler, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	if err := options.validate(); err != nil {
		return nil, fmt.Errorf("invalid handler options: %w", err)
	}

	return &Handler{
		db:   db,
		opts: options,
	}, nil
}

// Handle dispatches req on its method and always returns a response.
func (h *Handler) Handle(ctx context.Context, req *Request) *Response {
	logger := h.opts.logger.WithFields(map[string]any{
		"method": req.Method,
		"path":   req.Path,
	})

	resp := h.dispatch(ctx, req, logger)

	logger.WithField("status", resp.StatusCode).Info("Request handled")

	return resp
}

func (h *Handler) dispatch(ctx context.Context, req *Request, logger types.Logger) *Response {
	switch ParseMethod(req.Method) {
	case MethodGet:
		if req.PostID != "" {
			return h.getPost(ctx, req.PostID, logger)
		}

		return h.listPosts(ctx, logger)
	case MethodPost:
		return h.createPost(ctx, req.Body, logger)
	case MethodUnsupported:
		return h.methodNotAllowed()
	default:
		return h.methodNotAllowed()
	}
}

func (h *Handler) listPosts(ctx context.Context, logger types.Logger) *Response {
	records, err := h.db.ListRecords(ctx)
	if err != nil {
		return h.failure(fmt.Errorf("failed to list records: %w", err), logger)
	}

	if records == nil {
		records = []*types.Record{}
	}

	return jsonResponse(http.StatusOK, records)
}

func (h *Handler) getPost(ctx context.Context, id string, logger types.Logger) *Response {
	post, err := h.db.FindPost(ctx, id)
	if err != nil {
		return h.failure(fmt.Errorf("failed to find post %s: %w", id, err), logger)
	}

	return jsonResponse(http.StatusOK, post)
}

func (h *Handler) createPost(ctx context.Context, body []byte, logger types.Logger) *Response {
	post, err := types.ParseCreatePostRequest(body, h.opts.defaults)
	if err != nil {
		return h.failure(err, logger)
	}

	if err := h.db.SavePost(ctx, post); err != nil {
		return h.failure(fmt.Errorf("failed to save post %s: %w", post.ID, err), logger)
	}

	logger.WithField("post_id", post.ID).Info("Post created")

	h.notify(ctx, post, logger)

	return jsonResponse(http.StatusCreated, messageBody{Message: msgPostCreated})
}

func (h *Handler) methodNotAllowed() *Response {
	resp := errorResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	resp.Headers[headerAllow] = AllowedMethods

	return resp
}

// failure maps err onto the error taxonomy. Validation errors become 400,
// missing posts 404 and everything else 500. In legacy mode every failure
// is a 500.
func (h *Handler) failure(err error, logger types.Logger) *Response {
	switch {
	case errors.Is(err, types.ErrValidation):
		logger.Infof("Rejected request: %s", err)

		if h.opts.legacyErrors {
			return errorResponse(http.StatusInternalServerError, msgInternalServerError)
		}

		var validationErr *types.ValidationError
		if errors.As(err, &validationErr) {
			return errorResponse(http.StatusBadRequest, validationErr.Error())
		}

		return errorResponse(http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		logger.Info("Post not found")

		if h.opts.legacyErrors {
			return errorResponse(http.StatusInternalServerError, msgInternalServerError)
		}

		return errorResponse(http.StatusNotFound, msgPostNotFound)
	default:
		logger.Errorf("Request failed: %s", err)

		return errorResponse(http.StatusInternalServerError, msgInternalServerError)
	}
}

// notify publishes a post.created event to every configured target. It
// waits for all publishes to finish and only logs failures.
func (h *Handler) notify(ctx context.Context, post *types.Post, logger types.Logger) {
	if len(h.opts.notifyTargets) == 0 {
		return
	}

	event := types.NewPostCreatedEvent(h.opts.newEventID(), post, h.opts.clock())
	logger = logger.WithFields(map[string]any{
		"post_id":  post.ID,
		"event_id": event.ID,
	})

	var g errgroup.Group

	for _, target := range h.opts.notifyTargets {
		notifier := h.notifierFor(ctx, target)
		if notifier == nil {
			logger.Warnf("No notifier handles target %s", target)
			continue
		}

		g.Go(func() error {
			if err := notifier.Notify(ctx, target, event, logger); err != nil {
				logger.WithField("target", target).Errorf("Failed to publish post event: %s", err)
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Post was stored but at least one event notification failed")
	}
}

//nolint:ireturn
func (h *Handler) notifierFor(ctx context.Context, target string) types.Notifier {
	for _, n := range h.opts.notifiers {
		if n.ShouldHandle(ctx, target) {
			return n
		}
	}

	return nil
}
