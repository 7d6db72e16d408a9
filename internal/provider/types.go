package provider

import (
	"context"

	"github.com/vechain/walletkit/internal/types"
)

// Provider is the capability set shared by all authentication strategies.
// Implementations must classify every raw failure into a types.AuthError
// before returning control; no third-party error type crosses this boundary.
type Provider interface {
	// Source returns the provider family
	Source() types.ConnectionSource

	// SupportsMethod checks whether this provider serves the login method
	SupportsMethod(method types.LoginMethod) bool

	// Initiate performs the authentication ceremony and returns the result.
	// Blocking; respects ctx cancellation and the provider's own timeout.
	Initiate(ctx context.Context, params InitiateParams) (*Result, error)

	// Disconnect tears down any provider-side session state. Idempotent.
	Disconnect(ctx context.Context) error

	// SignMessage is the raw-signing primitive over the active session
	SignMessage(ctx context.Context, payload []byte) ([]byte, error)
}

// InitiateParams carries per-method inputs to an authentication ceremony
type InitiateParams struct {
	Method types.LoginMethod

	// Email is the login hint for email ceremonies
	Email string

	// OAuthProvider names the OAuth identity provider (google, twitter, ...)
	OAuthProvider string

	// AppID selects the partner application for cross-app logins
	AppID string
}

// EcosystemApp is partner-application metadata returned by cross-app logins
type EcosystemApp struct {
	AppID   string `json:"appId"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

// Result is the outcome of a successful ceremony
type Result struct {
	// Address is the owner address produced by the ceremony
	Address string

	// ChainID identifies the network the session is bound to. Empty when
	// the provider does not know it (the connection manager then falls back
	// to the genesis id of the configured node).
	ChainID string

	// Metadata carries opaque per-provider fields (wallet name, email,
	// user id, session id)
	Metadata map[string]string

	// App is set for cross-app logins only
	App *EcosystemApp
}
