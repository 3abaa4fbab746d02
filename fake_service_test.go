package myq

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
)

// recordedRequest is a request received by fakeService.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// fakeService is an in-process stand-in for the myQ API. Auth routes live
// under /auth and device routes under /device.
type fakeService struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeService(t *testing.T, routes map[string]http.HandlerFunc) *fakeService {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}

	f := &fakeService{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		f.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeService) newClient(opts ...Option) *Client {
	return NewClient(append([]Option{WithBaseURLs(f.URL+"/auth", f.URL+"/device")}, opts...)...)
}

// requestsTo returns the recorded requests with the given method and path.
func (f *fakeService) requestsTo(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeService) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// reply returns a handler that writes status and, when body is non-nil,
// body encoded as JSON.
func reply(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if body == nil {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

// replySequence returns a handler that answers with each handler in turn,
// repeating the last one once the sequence is exhausted.
func replySequence(handlers ...http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	next := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		h := handlers[next]
		if next < len(handlers)-1 {
			next++
		}
		mu.Unlock()
		h(w, r)
	}
}

type fakeDevice = map[string]any

// accountRoutes serves login with token "T", account "A", the given device
// list and accepting actions.
func accountRoutes(devices ...fakeDevice) map[string]http.HandlerFunc {
	items := []fakeDevice{}
	items = append(items, devices...)
	return map[string]http.HandlerFunc{
		"POST /auth/Login":                                reply(http.StatusOK, map[string]any{"SecurityToken": "T"}),
		"GET /auth/My":                                    reply(http.StatusOK, map[string]any{"Account": map[string]any{"Id": "A"}}),
		"GET /device/Accounts/A/Devices":                  reply(http.StatusOK, map[string]any{"items": items}),
		"PUT /device/Accounts/A/Devices/{serial}/actions": reply(http.StatusNoContent, nil),
	}
}

func door(serial, state string) fakeDevice {
	return fakeDevice{
		"serial_number": serial,
		"device_family": "garagedoor",
		"device_type":   "wifigaragedooropener",
		"name":          "Garage " + serial,
		"state":         map[string]any{"door_state": state, "online": true},
	}
}

func light(serial, state string) fakeDevice {
	return fakeDevice{
		"serial_number": serial,
		"device_family": "lamp",
		"device_type":   "lampmodule",
		"name":          "Lamp " + serial,
		"state":         map[string]any{"light_state": state, "online": true},
	}
}

func hub(serial string) fakeDevice {
	return fakeDevice{
		"serial_number": serial,
		"device_family": "gateway",
		"device_type":   "hub",
		"state":         map[string]any{"online": true},
	}
}

// mockDoer is a testify mock of the transport.
type mockDoer struct {
	mock.Mock
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}
