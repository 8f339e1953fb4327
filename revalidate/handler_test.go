package revalidate

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu   sync.Mutex
	tags []string
}

func (r *recordingInvalidator) InvalidateTag(ctx context.Context, tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tag)
}

func (r *recordingInvalidator) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tags...)
}

var fixedNow = time.UnixMilli(1700000000123)

func newTestHandler(inv Invalidator, opts ...Option) *Handler {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return NewHandler("s3cret", inv, opts...)
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name            string
		n               Notification
		wantStatus      int
		wantRevalidated bool
		wantTags        []string
	}{
		{name: "missing secret", n: Notification{Topic: "products/update"}, wantStatus: 401},
		{name: "wrong secret", n: Notification{Topic: "products/update", Secret: "nope"}, wantStatus: 401},
		{name: "secret prefix", n: Notification{Topic: "products/update", Secret: "s3cre"}, wantStatus: 401},
		{name: "product update", n: Notification{Topic: "products/update", Secret: "s3cret"}, wantStatus: 200, wantRevalidated: true, wantTags: []string{"products"}},
		{name: "product create", n: Notification{Topic: "products/create", Secret: "s3cret"}, wantStatus: 200, wantRevalidated: true, wantTags: []string{"products"}},
		{name: "product delete", n: Notification{Topic: "products/delete", Secret: "s3cret"}, wantStatus: 200, wantRevalidated: true, wantTags: []string{"products"}},
		{name: "collection update", n: Notification{Topic: "collections/update", Secret: "s3cret"}, wantStatus: 200, wantRevalidated: true, wantTags: []string{"collections"}},
		{name: "collection create", n: Notification{Topic: "collections/create", Secret: "s3cret"}, wantStatus: 200, wantRevalidated: true, wantTags: []string{"collections"}},
		{name: "collection delete", n: Notification{Topic: "collections/delete", Secret: "s3cret"}, wantStatus: 200, wantRevalidated: true, wantTags: []string{"collections"}},
		{name: "unknown topic", n: Notification{Topic: "unknown", Secret: "s3cret"}, wantStatus: 200},
		{name: "missing topic", n: Notification{Secret: "s3cret"}, wantStatus: 200},
		{name: "other topic", n: Notification{Topic: "orders/create", Secret: "s3cret"}, wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvalidator{}
			resp := newTestHandler(inv).Process(context.Background(), tt.n)

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantTags, inv.calls())
			if tt.wantStatus != 200 {
				assert.Nil(t, resp.Revalidated)
				assert.Nil(t, resp.Now)
				return
			}
			require.NotNil(t, resp.Revalidated)
			require.NotNil(t, resp.Now)
			assert.Equal(t, tt.wantRevalidated, *resp.Revalidated)
			assert.Equal(t, fixedNow.UnixMilli(), *resp.Now)
		})
	}
}

func TestProcess_EmptyConfiguredSecretRejectsEverything(t *testing.T) {
	inv := &recordingInvalidator{}
	h := NewHandler("", inv)

	resp := h.Process(context.Background(), Notification{Topic: "products/update", Secret: ""})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Empty(t, inv.calls())
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestProcess_Signature(t *testing.T) {
	body := []byte(`{"id":1}`)
	tests := []struct {
		name       string
		signature  string
		wantStatus int
		wantCalls  int
	}{
		{name: "valid", signature: sign("whsec", body), wantStatus: 200, wantCalls: 1},
		{name: "missing", signature: "", wantStatus: 401},
		{name: "other key", signature: sign("other", body), wantStatus: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvalidator{}
			h := newTestHandler(inv, WithSigningSecret("whsec"))

			resp := h.Process(context.Background(), Notification{
				Topic:     "collections/update",
				Secret:    "s3cret",
				Body:      body,
				Signature: tt.signature,
			})
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, inv.calls(), tt.wantCalls)
		})
	}
}

func TestServeHTTP(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		inv := &recordingInvalidator{}
		req := httptest.NewRequest(http.MethodPost, "/api/revalidate", nil)
		req.Header.Set(TopicHeader, "products/update")
		rec := httptest.NewRecorder()

		newTestHandler(inv).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"status":401}`, rec.Body.String())
		assert.Empty(t, inv.calls())
	})

	t.Run("revalidated", func(t *testing.T) {
		inv := &recordingInvalidator{}
		req := httptest.NewRequest(http.MethodPost, "/api/revalidate?secret=s3cret", nil)
		req.Header.Set(TopicHeader, "products/update")
		rec := httptest.NewRecorder()

		newTestHandler(inv).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":200,"revalidated":true,"now":1700000000123}`, rec.Body.String())
		assert.Equal(t, []string{"products"}, inv.calls())
	})

	t.Run("ignored topic", func(t *testing.T) {
		inv := &recordingInvalidator{}
		req := httptest.NewRequest(http.MethodPost, "/api/revalidate?secret=s3cret", nil)
		rec := httptest.NewRecorder()

		newTestHandler(inv).ServeHTTP(rec, req)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, body["revalidated"])
		assert.Empty(t, inv.calls())
	})

	t.Run("signed body", func(t *testing.T) {
		inv := &recordingInvalidator{}
		body := []byte(`{"handle":"summer"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/revalidate?secret=s3cret", bytes.NewReader(body))
		req.Header.Set(TopicHeader, "collections/delete")
		req.Header.Set(SignatureHeader, sign("whsec", body))
		rec := httptest.NewRecorder()

		newTestHandler(inv, WithSigningSecret("whsec")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"collections"}, inv.calls())
	})
}

func TestInvalidatorFunc(t *testing.T) {
	var got string
	h := newTestHandler(InvalidatorFunc(func(ctx context.Context, tag string) { got = tag }))

	h.Process(context.Background(), Notification{Topic: "collections/update", Secret: "s3cret"})
	assert.Equal(t, "collections", got)
}

func TestNewHandler_NilInvalidator(t *testing.T) {
	h := newTestHandler(nil)

	var resp Response
	require.NotPanics(t, func() {
		resp = h.Process(context.Background(), Notification{Topic: "products/update", Secret: "s3cret"})
	})
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, resp.Revalidated)
	assert.True(t, *resp.Revalidated)
}

func TestServeHTTP_OversizedBodyIsLogged(t *testing.T) {
	var logs bytes.Buffer
	inv := &recordingInvalidator{}
	h := newTestHandler(inv,
		WithSigningSecret("whsec"),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	body := bytes.Repeat([]byte("a"), maxBodyBytes+10)
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate?secret=s3cret", bytes.NewReader(body))
	req.Header.Set(TopicHeader, "products/update")
	req.Header.Set(SignatureHeader, sign("whsec", body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, logs.String(), "webhook body truncated")
	assert.Empty(t, inv.calls())
}
