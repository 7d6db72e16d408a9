//go:build wireinject

package api

import (
	"github.com/google/wire"

	"github.com/vechain/walletkit/internal/config"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	newRegistry,
	newMetrics,
	newStore,
	newThorClient,
	NewBridge,
	newProviders,
	newConnectionManager,
	newSmartAccountService,
	newSignerService,
	newFeeService,
	newAuthManager,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
