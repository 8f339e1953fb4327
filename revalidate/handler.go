// Package revalidate implements the webhook endpoint Shopify calls when
// catalogue data changes. Authenticated notifications are routed by topic to
// cache tag invalidations.
package revalidate

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/goliatone/go-storefront/storefront"
)

const (
	// TopicHeader carries the mutation topic, e.g. "products/update".
	TopicHeader = "X-Shopify-Topic"
	// SignatureHeader carries the base64 HMAC-SHA256 of the request body.
	SignatureHeader = "X-Shopify-Hmac-Sha256"
	// SecretParam is the query parameter holding the shared secret.
	SecretParam = "secret"

	// UnknownTopic is used when the topic header is missing.
	UnknownTopic = "unknown"

	maxBodyBytes = 1 << 20
)

var (
	collectionTopics = []string{"collections/create", "collections/delete", "collections/update"}
	productTopics    = []string{"products/create", "products/delete", "products/update"}
)

// Invalidator drops cached data registered under a tag. Calls are idempotent
// and fire-and-forget.
type Invalidator interface {
	InvalidateTag(ctx context.Context, tag string)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context, tag string)

func (f InvalidatorFunc) InvalidateTag(ctx context.Context, tag string) {
	f(ctx, tag)
}

// Notification is one inbound webhook call.
type Notification struct {
	Topic     string
	Secret    string
	Body      []byte
	Signature string
}

// Response is the JSON body returned to the notifier. Revalidated and Now
// are omitted on authentication failures.
type Response struct {
	Status      int    `json:"status"`
	Revalidated *bool  `json:"revalidated,omitempty"`
	Now         *int64 `json:"now,omitempty"`
	// Tags lists the invalidated tags. It is not serialized.
	Tags []string `json:"-"`
}

// Handler authenticates notifications and invalidates cache tags.
type Handler struct {
	secret        string
	signingSecret []byte
	invalidator   Invalidator
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithSigningSecret makes the handler also require a valid
// X-Shopify-Hmac-Sha256 signature computed with secret.
func WithSigningSecret(secret string) Option {
	return func(h *Handler) {
		if secret != "" {
			h.signingSecret = []byte(secret)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler builds a Handler accepting notifications that carry secret. A
// nil invalidator authenticates and acknowledges calls without invalidating.
func NewHandler(secret string, invalidator Invalidator, opts ...Option) *Handler {
	if invalidator == nil {
		invalidator = InvalidatorFunc(func(context.Context, string) {})
	}
	h := &Handler{
		secret:      secret,
		invalidator: invalidator,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Process runs the authentication check and topic routing for n. It never
// fails: every outcome is expressed in the returned Response.
func (h *Handler) Process(ctx context.Context, n Notification) Response {
	if !h.authenticated(n) {
		h.logger.ErrorContext(ctx, "invalid revalidation secret", "topic", n.Topic)
		return Response{Status: http.StatusUnauthorized}
	}

	topic := n.Topic
	if topic == "" {
		topic = UnknownTopic
	}

	if h.signingSecret != nil && !h.validSignature(n.Body, n.Signature) {
		h.logger.ErrorContext(ctx, "invalid webhook signature", "topic", topic)
		return Response{Status: http.StatusUnauthorized}
	}

	var tags []string
	if slices.Contains(collectionTopics, topic) {
		tags = append(tags, storefront.TagCollections)
	}
	if slices.Contains(productTopics, topic) {
		tags = append(tags, storefront.TagProducts)
	}

	for _, tag := range tags {
		h.invalidator.InvalidateTag(ctx, tag)
	}

	revalidated := len(tags) > 0
	now := h.now().UnixMilli()
	if revalidated {
		h.logger.InfoContext(ctx, "revalidated", "topic", topic, "tags", tags)
	} else {
		h.logger.DebugContext(ctx, "topic ignored", "topic", topic)
	}

	return Response{
		Status:      http.StatusOK,
		Revalidated: &revalidated,
		Now:         &now,
		Tags:        tags,
	}
}

func (h *Handler) authenticated(n Notification) bool {
	if n.Secret == "" || h.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(n.Secret), []byte(h.secret)) == 1
}

func (h *Handler) validSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, h.signingSecret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ServeHTTP adapts Process to net/http. The response status mirrors the
// JSON status field.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := Notification{
		Topic:     r.Header.Get(TopicHeader),
		Secret:    r.URL.Query().Get(SecretParam),
		Signature: r.Header.Get(SignatureHeader),
	}
	if h.signingSecret != nil && r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			h.logger.WarnContext(r.Context(), "read webhook body", "error", err)
		}
		if len(body) > maxBodyBytes {
			h.logger.WarnContext(r.Context(), "webhook body truncated, signature check will fail",
				"topic", n.Topic, "limit", maxBodyBytes)
			body = body[:maxBodyBytes]
		}
		n.Body = body
	}

	resp := h.Process(r.Context(), n)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.WarnContext(r.Context(), "write revalidate response", "error", err)
	}
}
