package smartaccount

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Version is a smart-account implementation version
type Version uint32

const (
	// VersionUndeployed is the sentinel for accounts that have no code yet.
	// An undeployed account is not an error, it simply deploys at the
	// current factory version on first use.
	VersionUndeployed Version = 0

	// VersionLegacy is the version assigned to deployed accounts that
	// predate the version accessor. Their version() call reverts, which is
	// a signal, not a failure.
	VersionLegacy Version = 1
)

// String returns the display form of the version
func (v Version) String() string {
	if v == VersionUndeployed {
		return "undeployed"
	}
	return strconv.FormatUint(uint64(v), 10)
}

// Info is the resolved state of a smart account. AccountAddress is a pure
// function of the owner, factory and network and never changes; IsDeployed
// and ImplementationVersion are snapshots of current chain state and may be
// stale, so callers that need continuity must resolve again.
type Info struct {
	OwnerAddress          common.Address
	AccountAddress        common.Address
	IsDeployed            bool
	ImplementationVersion Version
}

// Service resolves smart accounts and their upgrade requirements
type Service interface {
	// ResolveAccount computes the deterministic account address for owner on
	// network and reads its deployment status and implementation version
	ResolveAccount(ctx context.Context, owner common.Address, network string) (*Info, error)

	// NeedsUpgrade reports whether the owner's account must be upgraded to
	// reach targetVersion. Undeployed accounts never need an upgrade since
	// they deploy at the current version.
	NeedsUpgrade(ctx context.Context, owner common.Address, network string, targetVersion Version) (bool, error)

	// CurrentFactoryVersion reads the version new accounts deploy at
	CurrentFactoryVersion(ctx context.Context, network string) (Version, error)

	// HasLegacyAccount reports whether the owner has a pre-factory account
	HasLegacyAccount(ctx context.Context, owner common.Address, network string) (bool, error)
}
