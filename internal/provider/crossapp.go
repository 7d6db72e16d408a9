package provider

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// CrossAppProvider serves delegated logins through a partner application's
// identity, which is itself backed by the partner's embedded wallet. The
// ceremony runs in the partner app; on success the provider holds a
// delegated owner key and the partner-app metadata for display.
type CrossAppProvider struct {
	embedded *EmbeddedProvider
	launcher Launcher
	apps     map[string]EcosystemApp
	timeout  time.Duration
}

// NewCrossAppProvider creates the cross-app provider over a directory of
// known partner applications. Relaying reuses the embedded wallet service.
func NewCrossAppProvider(launcher Launcher, embedded *EmbeddedProvider, apps []EcosystemApp) (*CrossAppProvider, error) {
	if launcher == nil {
		return nil, errors.New("ceremony launcher is required")
	}
	if embedded == nil {
		return nil, errors.New("embedded provider is required")
	}
	if len(apps) == 0 {
		return nil, errors.New("at least one partner app is required")
	}

	directory := make(map[string]EcosystemApp, len(apps))
	for _, app := range apps {
		directory[app.AppID] = app
	}

	return &CrossAppProvider{
		embedded: embedded,
		launcher: launcher,
		apps:     directory,
		timeout:  embedded.ceremonyTimeout,
	}, nil
}

// Source returns the provider family
func (p *CrossAppProvider) Source() types.ConnectionSource {
	return types.SourceCrossApp
}

// SupportsMethod checks whether this provider serves the login method
func (p *CrossAppProvider) SupportsMethod(method types.LoginMethod) bool {
	return method.IsCrossApp()
}

// Initiate opens the partner-app ceremony and stores the delegated owner key
func (p *CrossAppProvider) Initiate(ctx context.Context, params InitiateParams) (*Result, error) {
	log := util.LogFromContext(ctx)

	app, ok := p.apps[params.AppID]
	if !ok {
		return nil, types.NewConfigurationError("crossapp_unknown_app", errors.Errorf("unknown partner app %q", params.AppID))
	}

	task, err := p.launcher.Launch(ctx, &CeremonyRequest{
		Method: params.Method,
		AppID:  app.AppID,
	})
	if err != nil {
		return nil, classifyCeremonyError(err, "crossapp_login")
	}

	outcome, err := task.Await(ctx, p.timeout)
	if err != nil {
		return nil, classifyCeremonyError(err, "crossapp_login")
	}

	ownerKey, err := deriveOwnerKey(outcome.Secret, outcome.UserID)
	clearBytes(outcome.Secret)
	if err != nil {
		return nil, types.NewProviderError("crossapp_key_derivation", err)
	}

	p.embedded.session.set(ownerKey, outcome.SessionID)

	address := crypto.PubkeyToAddress(ownerKey.PublicKey)
	log.Debug().Str("appId", app.AppID).Msg("Cross-app login completed")

	resultApp := app
	if outcome.App != nil {
		resultApp = *outcome.App
	}

	return &Result{
		Address: address.Hex(),
		Metadata: map[string]string{
			"appId":     resultApp.AppID,
			"userId":    outcome.UserID,
			"sessionId": outcome.SessionID,
		},
		App: &resultApp,
	}, nil
}

// Disconnect drops the delegated session. Idempotent.
func (p *CrossAppProvider) Disconnect(ctx context.Context) error {
	return p.embedded.Disconnect(ctx)
}

// SignMessage signs with the delegated owner key
func (p *CrossAppProvider) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	return p.embedded.SignMessage(ctx, payload)
}

// RelayAuthorization relays through the embedded wallet service
func (p *CrossAppProvider) RelayAuthorization(ctx context.Context, authorization []byte) (string, error) {
	return p.embedded.RelayAuthorization(ctx, authorization)
}

// KnownApps lists the configured partner applications
func (p *CrossAppProvider) KnownApps() []EcosystemApp {
	apps := make([]EcosystemApp, 0, len(p.apps))
	for _, app := range p.apps {
		apps = append(apps, app)
	}
	return apps
}
