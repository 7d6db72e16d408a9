package auth

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

type service struct {
	connections connection.Manager
	signers     signer.Service
	fees        feedelegation.Service
	methods     []types.LoginMethod
}

// NewService creates the authentication manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(connections connection.Manager, signers signer.Service, fees feedelegation.Service, methods []types.LoginMethod) (Manager, error) {
	if connections == nil {
		return nil, errors.New("connection manager is required")
	}
	if signers == nil {
		return nil, errors.New("signer service is required")
	}
	if fees == nil {
		return nil, errors.New("fee delegation service is required")
	}

	return &service{
		connections: connections,
		signers:     signers,
		fees:        fees,
		methods:     methods,
	}, nil
}

func (s *service) Connect(ctx context.Context, method types.LoginMethod, params provider.InitiateParams) (*connection.Connection, error) {
	return s.connections.Connect(ctx, method, params)
}

func (s *service) Disconnect(ctx context.Context) error {
	return s.connections.Disconnect(ctx)
}

func (s *service) Restore(ctx context.Context) (*connection.Connection, error) {
	return s.connections.Restore(ctx)
}

func (s *service) Status() Status {
	return Status{
		State:      s.connections.State(),
		Connection: s.connections.Current(),
	}
}

func (s *service) IsMethodAvailable(method types.LoginMethod) bool {
	return s.connections.IsMethodAvailable(method)
}

func (s *service) AvailableMethods() []types.LoginMethod {
	available := make([]types.LoginMethod, 0, len(s.methods))
	for _, method := range s.methods {
		if s.connections.IsMethodAvailable(method) {
			available = append(available, method)
		}
	}

	return available
}

//nolint:ireturn
func (s *service) Signer(ctx context.Context) (signer.Signer, error) {
	conn := s.connections.Current()
	if conn == nil {
		return nil, errors.New("no active connection")
	}

	sig, err := s.signers.GetSigner(ctx, conn)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return nil, errors.New("no signer for active connection")
	}

	return sig, nil
}

func (s *service) EstimateFees(ctx context.Context, clauses []thor.Clause) (*feedelegation.Result, error) {
	prefs, err := s.fees.Preferences(ctx)
	if err != nil {
		return nil, err
	}

	return s.fees.Estimate(ctx, clauses, prefs)
}

// Send estimates the clause set, resolves the signer for the active
// connection and submits in one pass. The estimate is returned alongside
// the transaction id so callers can surface the cost that was accepted.
// Smart-account connections cannot submit without a delegation estimate;
// for a directly connected wallet the estimate is advisory, since the
// wallet pays its own gas either way.
func (s *service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	log := util.LogFromContext(ctx)

	if len(req.Clauses) == 0 {
		return nil, errors.New("at least one clause is required")
	}

	conn := s.connections.Current()
	if conn == nil {
		return nil, errors.New("no active connection")
	}

	sig, err := s.signers.GetSigner(ctx, conn)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return nil, errors.New("no signer for active connection")
	}

	prefs, err := s.fees.Preferences(ctx)
	if err != nil {
		return nil, err
	}
	if req.GasToken != "" {
		if !req.GasToken.IsSupported() {
			return nil, errors.Errorf("unsupported gas token %q", req.GasToken)
		}
		prefs.TokenPriority = []feedelegation.GasToken{req.GasToken}
		prefs.ExcludedTokens = nil
	}

	estimate, err := s.fees.Estimate(ctx, req.Clauses, prefs)
	if err != nil {
		if conn.Source.UsesSmartAccountSigning() {
			return nil, err
		}

		log.Warn().Err(err).Msg("Fee estimate unavailable, wallet pays gas directly")
		estimate = nil
	}

	txID, err := sig.SignAndSend(ctx, req.Clauses)
	if err != nil {
		return nil, err
	}

	log.Info().Str("txId", txID).Str("signer", sig.Address().Hex()).Msg("Transaction submitted")

	return &SendResult{
		TxID:     txID,
		Signer:   sig.Address().Hex(),
		Estimate: estimate,
	}, nil
}

func (s *service) GasTokenPreferences(ctx context.Context) (feedelegation.Preferences, error) {
	return s.fees.Preferences(ctx)
}

func (s *service) SaveGasTokenPreferences(ctx context.Context, prefs feedelegation.Preferences) error {
	return s.fees.SavePreferences(ctx, prefs)
}

//nolint:ireturn
func (s *service) Bus() EventBus.Bus {
	return s.connections.Bus()
}
