package odoo

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/website/internal/infrastructure/xmlrpc"
)

// rpcCall is one call received by fakeOdoo
type rpcCall struct {
	Service string // "common" or "object"
	Method  string
	Params  []any
}

// Model returns the model of an execute_kw call
func (c rpcCall) Model() string {
	if len(c.Params) < 4 {
		return ""
	}
	s, _ := c.Params[3].(string)
	return s
}

// KWMethod returns the model method of an execute_kw call
func (c rpcCall) KWMethod() string {
	if len(c.Params) < 5 {
		return ""
	}
	s, _ := c.Params[4].(string)
	return s
}

// Args returns the positional arguments of an execute_kw call
func (c rpcCall) Args() []any {
	if len(c.Params) < 6 {
		return nil
	}
	a, _ := c.Params[5].([]any)
	return a
}

// Kwargs returns the keyword arguments of an execute_kw call
func (c rpcCall) Kwargs() map[string]any {
	if len(c.Params) < 7 {
		return nil
	}
	m, _ := c.Params[6].(map[string]any)
	return m
}

// fakeOdoo is an httptest server speaking Odoo's XML-RPC endpoints.
// handle returns the value to answer with, a fault, or an HTTP status >= 400.
type fakeOdoo struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	calls  []rpcCall
	handle func(call rpcCall) (any, *xmlrpc.Fault, int)
}

func newFakeOdoo(t *testing.T, handle func(call rpcCall) (any, *xmlrpc.Fault, int)) *fakeOdoo {
	t.Helper()
	f := &fakeOdoo{t: t, handle: handle}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOdoo) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)

	method, params, err := xmlrpc.DecodeCall(body)
	require.NoError(f.t, err)

	call := rpcCall{
		Service: strings.TrimPrefix(r.URL.Path, "/xmlrpc/2/"),
		Method:  method,
		Params:  params,
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	result, fault, status := f.handle(call)
	if status >= 400 {
		w.WriteHeader(status)
		return
	}

	var out []byte
	if fault != nil {
		out, err = xmlrpc.EncodeFault(fault)
	} else {
		out, err = xmlrpc.EncodeResponse(result)
	}
	require.NoError(f.t, err)
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(out)
}

func (f *fakeOdoo) Calls() []rpcCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpcCall(nil), f.calls...)
}

// config returns a client configuration pointing at the fake server
func (f *fakeOdoo) config() *Config {
	return &Config{
		URL:          f.server.URL,
		Database:     "erp",
		Username:     "admin@example.com",
		Password:     "api-key",
		Timeout:      2 * time.Second,
		AuthAttempts: 3,
		RetryDelay:   time.Millisecond,
	}
}

func (f *fakeOdoo) client(opts ...Option) *Client {
	f.t.Helper()
	c, err := NewClient(f.config(), zap.NewNop(), opts...)
	require.NoError(f.t, err)
	return c
}

// authOK answers authenticate with uid 2 and delegates object calls
func authOK(object func(call rpcCall) (any, *xmlrpc.Fault, int)) func(call rpcCall) (any, *xmlrpc.Fault, int) {
	return func(call rpcCall) (any, *xmlrpc.Fault, int) {
		if call.Service == "common" && call.Method == "authenticate" {
			return int64(2), nil, 0
		}
		return object(call)
	}
}
