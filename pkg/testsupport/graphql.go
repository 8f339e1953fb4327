package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
)

var operationPattern = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

// GraphQLCall records one request received by a GraphQLStub.
type GraphQLCall struct {
	Operation string
	Variables map[string]any
	Header    http.Header
}

// GraphQLStub is an httptest server answering GraphQL POSTs with canned
// bodies keyed by operation name. Unknown operations get a GraphQL error.
type GraphQLStub struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]stubResponse
	calls     []GraphQLCall
}

type stubResponse struct {
	status int
	body   []byte
}

// NewGraphQLStub starts a stub that is closed when the test ends.
func NewGraphQLStub(t testing.TB) *GraphQLStub {
	t.Helper()

	s := &GraphQLStub{responses: map[string]stubResponse{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Respond registers body as the reply to operation.
func (s *GraphQLStub) Respond(operation string, body []byte) {
	s.RespondStatus(operation, http.StatusOK, body)
}

// RespondStatus registers a reply with an explicit HTTP status.
func (s *GraphQLStub) RespondStatus(operation string, status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[operation] = stubResponse{status: status, body: body}
}

// RespondFixture registers testdata/filename as the reply to operation.
func (s *GraphQLStub) RespondFixture(t testing.TB, operation, filename string) {
	t.Helper()
	s.Respond(operation, LoadFixture(t, FixturePath(filename)))
}

// Calls returns the requests received so far.
func (s *GraphQLStub) Calls() []GraphQLCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GraphQLCall(nil), s.calls...)
}

func (s *GraphQLStub) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&req) != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	operation := ""
	if m := operationPattern.FindStringSubmatch(req.Query); m != nil {
		operation = m[1]
	}

	s.mu.Lock()
	s.calls = append(s.calls, GraphQLCall{Operation: operation, Variables: req.Variables, Header: r.Header.Clone()})
	resp, ok := s.responses[operation]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":   nil,
			"errors": []map[string]string{{"message": "no stub for operation " + operation}},
		})
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}
