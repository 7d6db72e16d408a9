package provider

import (
	"context"
	"net"

	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/types"
)

// classifyCeremonyError translates low-level ceremony failures into the
// shared taxonomy. Raw errors never leave the provider package.
func classifyCeremonyError(err error, code string) *types.AuthError {
	switch {
	case errors.Is(err, ErrCeremonyCancelled), errors.Is(err, context.Canceled):
		return types.NewUserRejection(code+"_cancelled", err)
	case errors.Is(err, ErrPopupBlocked):
		return types.NewPopupBlocked(code+"_popup_blocked", err)
	case errors.Is(err, ErrCeremonyTimeout), errors.Is(err, context.DeadlineExceeded):
		return types.NewNetworkError(code+"_timeout", err)
	case isNetworkError(err):
		return types.NewNetworkError(code+"_network", err)
	default:
		return types.NewProviderError(code+"_failed", err)
	}
}

// isNetworkError checks for transport-level failures
func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
