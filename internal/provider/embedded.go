package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

const defaultCeremonyTimeout = 5 * time.Minute

// EmbeddedProvider serves email, OAuth and passkey logins through the
// embedded wallet: the launcher opens the popup or native ceremony, the
// wallet service releases the owner key material on completion, and the
// provider keeps the derived key for authorization signing and relays
// signed authorizations back to the service.
type EmbeddedProvider struct {
	launcher        Launcher
	serviceURL      string
	http            *http.Client
	ceremonyTimeout time.Duration
	session         ownerSession
}

// EmbeddedConfig configures the embedded provider
type EmbeddedConfig struct {
	// ServiceURL is the base URL of the embedded wallet service
	ServiceURL string

	// CeremonyTimeout bounds the wait for the external ceremony.
	// Defaults to 5 minutes.
	CeremonyTimeout time.Duration
}

// NewEmbeddedProvider creates the embedded wallet provider
func NewEmbeddedProvider(launcher Launcher, config EmbeddedConfig) (*EmbeddedProvider, error) {
	if launcher == nil {
		return nil, errors.New("ceremony launcher is required")
	}
	if config.ServiceURL == "" {
		return nil, errors.New("wallet service URL is required")
	}

	if config.CeremonyTimeout <= 0 {
		config.CeremonyTimeout = defaultCeremonyTimeout
	}

	return &EmbeddedProvider{
		launcher:        launcher,
		serviceURL:      strings.TrimRight(config.ServiceURL, "/"),
		http:            &http.Client{Timeout: 30 * time.Second},
		ceremonyTimeout: config.CeremonyTimeout,
	}, nil
}

// Source returns the provider family
func (p *EmbeddedProvider) Source() types.ConnectionSource {
	return types.SourceEmbeddedWallet
}

// SupportsMethod checks whether this provider serves the login method
func (p *EmbeddedProvider) SupportsMethod(method types.LoginMethod) bool {
	return method.IsEmbedded()
}

// Initiate opens the login ceremony and, on completion, derives and stores
// the owner key for the session
func (p *EmbeddedProvider) Initiate(ctx context.Context, params InitiateParams) (*Result, error) {
	log := util.LogFromContext(ctx)

	task, err := p.launcher.Launch(ctx, &CeremonyRequest{
		Method:        params.Method,
		Email:         params.Email,
		OAuthProvider: params.OAuthProvider,
	})
	if err != nil {
		return nil, classifyCeremonyError(err, "embedded_login")
	}

	outcome, err := task.Await(ctx, p.ceremonyTimeout)
	if err != nil {
		return nil, classifyCeremonyError(err, "embedded_login")
	}

	ownerKey, err := deriveOwnerKey(outcome.Secret, outcome.UserID)
	clearBytes(outcome.Secret)
	if err != nil {
		return nil, types.NewProviderError("embedded_key_derivation", err)
	}

	p.session.set(ownerKey, outcome.SessionID)

	address := crypto.PubkeyToAddress(ownerKey.PublicKey)
	log.Debug().Str("method", params.Method.String()).Msg("Embedded wallet login completed")

	metadata := map[string]string{
		"userId":    outcome.UserID,
		"sessionId": outcome.SessionID,
	}
	if outcome.Email != "" {
		metadata["email"] = outcome.Email
	}
	if params.OAuthProvider != "" {
		metadata["oauthProvider"] = params.OAuthProvider
	}

	return &Result{
		Address:  address.Hex(),
		Metadata: metadata,
	}, nil
}

// Disconnect drops the session key. Idempotent.
func (p *EmbeddedProvider) Disconnect(_ context.Context) error {
	p.session.clear()
	return nil
}

// SignMessage signs the payload with the session owner key
func (p *EmbeddedProvider) SignMessage(_ context.Context, payload []byte) ([]byte, error) {
	return p.session.sign(payload)
}

type relayRequest struct {
	Authorization json.RawMessage `json:"authorization"`
	SessionID     string          `json:"sessionId"`
}

type relayResponse struct {
	TxID string `json:"txId"`
}

// RelayAuthorization hands a signed authorization to the wallet service,
// which executes the smart account's execute-with-authorization entry point
// and returns the transaction id.
func (p *EmbeddedProvider) RelayAuthorization(ctx context.Context, authorization []byte) (string, error) {
	sessionID := p.session.id()
	if sessionID == "" {
		return "", errors.New("no active session")
	}

	payload, err := json.Marshal(relayRequest{
		Authorization: authorization,
		SessionID:     sessionID,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal relay request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.serviceURL+"/v1/accounts/execute", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to build relay request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", types.NewNetworkError("relay_network", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", types.NewProviderError("relay_rejected", errors.Errorf("wallet service returned status %d: %s", res.StatusCode, strings.TrimSpace(string(raw))))
	}

	var parsed relayResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", types.NewProviderError("relay_malformed", errors.Wrap(err, "failed to decode relay response"))
	}
	if parsed.TxID == "" {
		return "", types.NewProviderError("relay_malformed", errors.New("wallet service returned empty transaction id"))
	}

	return parsed.TxID, nil
}
