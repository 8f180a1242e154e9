package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// providerResponse is one configured canned response for a provider endpoint.
type providerResponse struct {
	status int
	body   any
}

// ApiMock stands in for the bank data provider. Endpoints are keyed by
// method+path; path segments may be wildcarded with "*" so account-scoped
// routes can be configured without knowing the provider account id upfront.
// The sync worker calls the provider from a background goroutine, so every
// map access is serialized.
type ApiMock struct {
	mu               sync.Mutex
	requestsReceived map[string]map[int]map[string]any
	headersReceived  map[string]map[int]map[string]string
	queriesReceived  map[string]map[int]map[string]string
	responses        map[string]map[int]providerResponse
	defaultResponses map[string]providerResponse
	mockUrl          string
}

func NewApiServer() *ApiMock {
	a := &ApiMock{}
	a.reset()
	return a
}

func (a *ApiMock) Start() {
	server := httptest.NewServer(http.HandlerFunc(a.handle))
	a.mockUrl = server.URL
}

func (a *ApiMock) GetUrl() string {
	return a.mockUrl
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	method := r.Method
	path := r.URL.Path
	index := len(a.requestsReceived[method+path])

	body, _ := io.ReadAll(r.Body)
	request := map[string]any{}
	_ = json.Unmarshal(body, &request)

	if a.requestsReceived[method+path] == nil {
		a.requestsReceived[method+path] = map[int]map[string]any{}
	}
	a.requestsReceived[method+path][index] = request

	if a.headersReceived[method+path] == nil {
		a.headersReceived[method+path] = map[int]map[string]string{}
	}
	a.headersReceived[method+path][index] = map[string]string{}
	for key, value := range r.Header {
		a.headersReceived[method+path][index][key] = value[0]
	}

	if a.queriesReceived[method+path] == nil {
		a.queriesReceived[method+path] = map[int]map[string]string{}
	}
	a.queriesReceived[method+path][index] = map[string]string{}
	for key, value := range r.URL.Query() {
		a.queriesReceived[method+path][index][key] = value[0]
	}

	response := a.lookupResponse(method, path, index)
	payload, _ := json.Marshal(response.body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	_, _ = w.Write(payload)
}

// SetResponse configures the canned response for the index-th call to
// method+path. Index -1 sets the fallback used when no indexed response
// matches. The body may be any JSON-marshalable value, including a bare
// array, which is what the institution listing returns.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index == -1 {
		a.defaultResponses[method+path] = providerResponse{status: status, body: response}
		return
	}

	if a.responses[method+path] == nil {
		a.responses[method+path] = map[int]providerResponse{}
	}
	a.responses[method+path][index] = providerResponse{status: status, body: response}
}

// GetRequestBody returns the parsed JSON body of the index-th request to
// method+path. The path may contain "*" segments.
func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.findRecordedKey(mapKeys(a.requestsReceived), method, path)
	if key != "" && a.requestsReceived[key] != nil {
		if request, exists := a.requestsReceived[key][index]; exists {
			return request
		}
	}
	return nil
}

// GetRequestHeaders returns the headers of the index-th request to method+path.
func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.findRecordedKey(mapKeys(a.headersReceived), method, path)
	if key != "" && a.headersReceived[key] != nil {
		if headers, exists := a.headersReceived[key][index]; exists {
			return headers
		}
	}
	return nil
}

// GetRequestQueries returns the query params of the index-th request to method+path.
func (a *ApiMock) GetRequestQueries(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.findRecordedKey(mapKeys(a.queriesReceived), method, path)
	if key != "" && a.queriesReceived[key] != nil {
		if queries, exists := a.queriesReceived[key][index]; exists {
			return queries
		}
	}
	return nil
}

// CountRequests returns how many calls method+path has received. The path
// may contain "*" segments; counts are summed across matching endpoints.
func (a *ApiMock) CountRequests(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for key, requests := range a.requestsReceived {
		if strings.HasPrefix(key, method) && matchPath(path, strings.TrimPrefix(key, method)) {
			count += len(requests)
		}
	}
	return count
}

// Reset drops every recorded request and configured response. Scenarios call
// this between runs so one scenario's provider setup never leaks into the next.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *ApiMock) reset() {
	a.requestsReceived = map[string]map[int]map[string]any{}
	a.headersReceived = map[string]map[int]map[string]string{}
	a.queriesReceived = map[string]map[int]map[string]string{}
	a.responses = map[string]map[int]providerResponse{}
	a.defaultResponses = map[string]providerResponse{}
}

func (a *ApiMock) lookupResponse(method, path string, index int) providerResponse {
	key := a.findConfiguredKey(mapKeys(a.responses), method, path)
	if key != "" && a.responses[key] != nil {
		if response, exists := a.responses[key][index]; exists {
			return response
		}
	}

	defaultKey := a.findConfiguredKey(mapKeys(a.defaultResponses), method, path)
	if defaultKey != "" {
		if response, exists := a.defaultResponses[defaultKey]; exists {
			return response
		}
	}

	// Unconfigured endpoints answer with an empty object so a missing
	// fixture shows up as a provider error in the app rather than a panic.
	return providerResponse{status: 200, body: map[string]any{}}
}

// findConfiguredKey resolves a real request path against configured keys,
// which may contain wildcards.
func (a *ApiMock) findConfiguredKey(keys []string, method, path string) string {
	exactKey := method + path
	for _, key := range keys {
		if key == exactKey {
			return key
		}
	}

	for _, key := range keys {
		if strings.HasPrefix(key, method) && matchPath(strings.TrimPrefix(key, method), path) {
			return key
		}
	}

	return ""
}

// findRecordedKey resolves a possibly wildcarded query path against recorded
// keys, which are always concrete.
func (a *ApiMock) findRecordedKey(keys []string, method, path string) string {
	exactKey := method + path
	for _, key := range keys {
		if key == exactKey {
			return key
		}
	}

	for _, key := range keys {
		if strings.HasPrefix(key, method) && matchPath(path, strings.TrimPrefix(key, method)) {
			return key
		}
	}

	return ""
}

// matchPath compares two slash-separated paths segment by segment, treating
// "*" on either side as a match.
func matchPath(pattern string, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && pathParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}

	return true
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
