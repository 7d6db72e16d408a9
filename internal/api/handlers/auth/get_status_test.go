package auth_test

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/api"
	handlerauth "github.com/vechain/walletkit/internal/api/handlers/auth"
	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/test"
)

func TestGetStatusDisconnected(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/auth/status", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var status struct {
			State string `json:"state"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &status))
		assert.Equal(t, string(connection.StateDisconnected), status.State)
	})
}

func TestGetMethodsListsPartnerApps(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/auth/methods", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response handlerauth.GetMethodsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

		assert.NotEmpty(t, response.Methods)
		require.Len(t, response.Apps, 1)
		assert.Equal(t, "vebetterdao", response.Apps[0].AppID)
	})
}

func TestPostConnectUnknownMethod(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/auth/connect", map[string]string{
			"method": "telepathy",
		}, nil)

		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestPostConnectMissingMethod(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/auth/connect", map[string]string{}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestConnectCeremonySettledThroughBridge(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		var wg sync.WaitGroup
		wg.Add(1)

		var connectStatus int
		go func() {
			defer wg.Done()
			res := test.PerformRequest(t, s, "POST", "/api/v1/auth/connect", map[string]string{
				"method": "email",
				"email":  "user@example.com",
			}, nil)
			connectStatus = res.Result().StatusCode
		}()

		// wait for the ceremony to appear on the bridge
		var ceremonyID string
		require.Eventually(t, func() bool {
			ceremonies := s.Bridge.Ceremonies()
			if len(ceremonies) == 0 {
				return false
			}
			ceremonyID = ceremonies[0].ID
			return true
		}, 2*time.Second, 10*time.Millisecond)

		secret := hexutil.Encode([]byte("super-secret-key-material-000001"))
		res := test.PerformRequest(t, s, "POST", "/api/v1/auth/ceremonies/"+ceremonyID+"/complete", map[string]string{
			"secret":    secret,
			"userId":    "user-1",
			"sessionId": "session-1",
			"email":     "user@example.com",
		}, nil)
		require.Equal(t, http.StatusNoContent, res.Result().StatusCode)

		wg.Wait()
		assert.Equal(t, http.StatusOK, connectStatus)
		assert.Equal(t, connection.StateConnected, s.Connection.State())
	})
}

func TestCeremonyCancelledThroughBridge(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		var wg sync.WaitGroup
		wg.Add(1)

		var connectStatus int
		go func() {
			defer wg.Done()
			res := test.PerformRequest(t, s, "POST", "/api/v1/auth/connect", map[string]string{
				"method": "email",
				"email":  "user@example.com",
			}, nil)
			connectStatus = res.Result().StatusCode
		}()

		var ceremonyID string
		require.Eventually(t, func() bool {
			ceremonies := s.Bridge.Ceremonies()
			if len(ceremonies) == 0 {
				return false
			}
			ceremonyID = ceremonies[0].ID
			return true
		}, 2*time.Second, 10*time.Millisecond)

		res := test.PerformRequest(t, s, "POST", "/api/v1/auth/ceremonies/"+ceremonyID+"/cancel", nil, nil)
		require.Equal(t, http.StatusNoContent, res.Result().StatusCode)

		wg.Wait()
		assert.Equal(t, http.StatusBadRequest, connectStatus, "user rejection maps to 400")
		assert.Equal(t, connection.StateDisconnected, s.Connection.State())
	})
}
