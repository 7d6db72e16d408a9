package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/api/router"
	"github.com/vechain/walletkit/internal/config"
)

// genesis id of a private development network
const testGenesisID = "0x00000000c05a20fbca2bf528253d6a2b3b4f0a68b49926c3bb8a09a8a7e4e482"

// DefaultTestConfig is the service configuration used by API tests: in
// memory store, all login methods enabled and a placeholder embedded
// wallet service so every provider is wired.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Echo.ListenAddress = "127.0.0.1:0"
	cfg.Store.Dir = ""
	cfg.Auth.EmbeddedServiceURL = "http://embedded.invalid"
	cfg.Auth.CeremonyTimeout = 5 * time.Second
	cfg.Auth.PartnerAppsJSON = `[{"appId":"vebetterdao","name":"VeBetterDAO","logoUrl":"https://vebetter.example/logo.png"}]`

	return cfg
}

// NewThorStub serves the minimal node surface the kit reads during tests,
// so nothing reaches a real network
func NewThorStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/blocks/", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        testGenesisID,
			"number":    0,
			"timestamp": 1530014400,
			"parentID":  "0xffffffff53616c757465202620526573706563742c20457468657265756d2100",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

// WithTestServer creates a fully wired test server, runs the closure and
// shuts it down
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	cfg := DefaultTestConfig()
	cfg.Thor.NodeURLs = []string{NewThorStub(t).URL}

	s, err := api.InitNewServer(cfg)
	require.NoError(t, err)

	router.Init(s)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	closure(s)
}

// PerformRequest runs a request against the test server's echo instance
func PerformRequest(t *testing.T, s *api.Server, method, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	return rec
}
