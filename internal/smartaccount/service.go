package smartaccount

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/util"
)

// factoryABI is the read surface of the account factory contract
const factoryABI = `[
	{"name":"getAccountAddress","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"address"}]},
	{"name":"currentAccountImplementationVersion","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint32"}]},
	{"name":"hasLegacyAccount","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`

// accountABI is the version accessor of deployed smart accounts
const accountABI = `[
	{"name":"version","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint32"}]}
]`

type service struct {
	client    thor.Client
	factories map[string]common.Address
}

// NewService creates a smart-account resolver over the given factory
// addresses, keyed by network name
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(client thor.Client, factories map[string]common.Address) (Service, error) {
	if len(factories) == 0 {
		return nil, errors.New("at least one factory address is required")
	}

	return &service{
		client:    client,
		factories: factories,
	}, nil
}

func (s *service) factory(network string) (common.Address, error) {
	factory, ok := s.factories[network]
	if !ok {
		return common.Address{}, errors.Errorf("no account factory configured for network %q", network)
	}

	return factory, nil
}

// ResolveAccount computes the deterministic account address for owner and
// reads deployment status and implementation version from current chain state
func (s *service) ResolveAccount(ctx context.Context, owner common.Address, network string) (*Info, error) {
	log := util.LogFromContext(ctx)

	if owner == (common.Address{}) {
		return nil, errors.New("owner address is required")
	}

	factory, err := s.factory(network)
	if err != nil {
		return nil, err
	}

	accountAddress, err := s.accountAddressFor(ctx, factory, owner)
	if err != nil {
		return nil, err
	}

	account, err := s.client.GetAccount(ctx, accountAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read account state")
	}

	info := &Info{
		OwnerAddress:          owner,
		AccountAddress:        accountAddress,
		IsDeployed:            account.HasCode,
		ImplementationVersion: VersionUndeployed,
	}

	if !account.HasCode {
		return info, nil
	}

	version, err := s.implementationVersion(ctx, accountAddress)
	if err != nil {
		return nil, err
	}
	info.ImplementationVersion = version

	log.Debug().
		Str("owner", owner.Hex()).
		Str("account", accountAddress.Hex()).
		Str("version", version.String()).
		Msg("Resolved smart account")

	return info, nil
}

// accountAddressFor asks the factory for the deterministic account address
func (s *service) accountAddressFor(ctx context.Context, factory common.Address, owner common.Address) (common.Address, error) {
	values, err := s.client.ReadContract(ctx, factory, factoryABI, "getAccountAddress", owner)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to compute account address")
	}

	address, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.New("factory returned a non-address value")
	}

	return address, nil
}

// implementationVersion reads version() from a deployed account. A revert
// means the deployment predates the accessor and is treated as version 1.
func (s *service) implementationVersion(ctx context.Context, account common.Address) (Version, error) {
	values, err := s.client.ReadContract(ctx, account, accountABI, "version")
	if err != nil {
		if errors.Is(err, thor.ErrReverted) {
			return VersionLegacy, nil
		}
		return VersionUndeployed, errors.Wrap(err, "failed to read account version")
	}

	version, ok := values[0].(uint32)
	if !ok {
		return VersionUndeployed, errors.New("account returned a non-numeric version")
	}

	return Version(version), nil
}

// NeedsUpgrade reports whether the owner's account must be upgraded to reach
// targetVersion
func (s *service) NeedsUpgrade(ctx context.Context, owner common.Address, network string, targetVersion Version) (bool, error) {
	info, err := s.ResolveAccount(ctx, owner, network)
	if err != nil {
		return false, err
	}

	// Undeployed accounts deploy at the current factory version, so no
	// upgrade step is ever needed before first use.
	if !info.IsDeployed {
		return false, nil
	}

	return info.ImplementationVersion < targetVersion, nil
}

// CurrentFactoryVersion reads the version new accounts deploy at
func (s *service) CurrentFactoryVersion(ctx context.Context, network string) (Version, error) {
	factory, err := s.factory(network)
	if err != nil {
		return VersionUndeployed, err
	}

	values, err := s.client.ReadContract(ctx, factory, factoryABI, "currentAccountImplementationVersion")
	if err != nil {
		return VersionUndeployed, errors.Wrap(err, "failed to read factory version")
	}

	version, ok := values[0].(uint32)
	if !ok {
		return VersionUndeployed, errors.New("factory returned a non-numeric version")
	}

	return Version(version), nil
}

// HasLegacyAccount reports whether the owner has a pre-factory account
func (s *service) HasLegacyAccount(ctx context.Context, owner common.Address, network string) (bool, error) {
	factory, err := s.factory(network)
	if err != nil {
		return false, err
	}

	values, err := s.client.ReadContract(ctx, factory, factoryABI, "hasLegacyAccount", owner)
	if err != nil {
		return false, errors.Wrap(err, "failed to check legacy account")
	}

	hasLegacy, ok := values[0].(bool)
	if !ok {
		return false, errors.New("factory returned a non-boolean value")
	}

	return hasLegacy, nil
}
