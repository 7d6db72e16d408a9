package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/util"
)

const defaultApprovalTimeout = 5 * time.Minute

// PendingCeremony is an authentication ceremony waiting for the embedding
// application to settle it through the bridge endpoints
type PendingCeremony struct {
	ID        string                    `json:"id"`
	Request   *provider.CeremonyRequest `json:"request"`
	StartedAt time.Time                 `json:"startedAt"`

	task *provider.CeremonyTask
}

// PendingApproval is an external-wallet action (connect or sign) waiting
// for the connector frontend
type PendingApproval struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Payload   []byte    `json:"payload,omitempty"`
	StartedAt time.Time `json:"startedAt"`

	session chan *provider.ConnectorSession
	signed  chan []byte
	failed  chan error
}

// Bridge adapts the popup-style provider contracts onto HTTP. The connect
// call long-polls while the frontend settles the pending entry through the
// bridge routes. It implements both provider.Launcher and
// provider.WalletConnector.
type Bridge struct {
	mu         sync.Mutex
	ceremonies map[string]*PendingCeremony
	approvals  map[string]*PendingApproval
	timeout    time.Duration
}

// NewBridge creates an empty ceremony and approval bridge
func NewBridge() *Bridge {
	return &Bridge{
		ceremonies: make(map[string]*PendingCeremony),
		approvals:  make(map[string]*PendingApproval),
		timeout:    defaultApprovalTimeout,
	}
}

// Launch registers a pending ceremony and returns its task. The ceremony
// stays listed until its task settles, no matter which side settles it: an
// abandoned wait counts as settlement too, so stale entries never pile up.
func (b *Bridge) Launch(ctx context.Context, req *provider.CeremonyRequest) (*provider.CeremonyTask, error) {
	log := util.LogFromContext(ctx)

	pending := &PendingCeremony{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: time.Now(),
		task:      provider.NewCeremonyTask(),
	}

	b.mu.Lock()
	b.ceremonies[pending.ID] = pending
	b.mu.Unlock()

	go func() {
		<-pending.task.Done()

		b.mu.Lock()
		delete(b.ceremonies, pending.ID)
		b.mu.Unlock()
	}()

	log.Debug().Str("ceremonyId", pending.ID).Str("method", string(req.Method)).Msg("Ceremony pending settlement")

	return pending.task, nil
}

// Ceremonies lists the unsettled ceremonies
func (b *Bridge) Ceremonies() []*PendingCeremony {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*PendingCeremony, 0, len(b.ceremonies))
	for _, pending := range b.ceremonies {
		out = append(out, pending)
	}

	return out
}

// CompleteCeremony settles a pending ceremony with its outcome
func (b *Bridge) CompleteCeremony(id string, outcome *provider.CeremonyOutcome) error {
	pending, err := b.takeCeremony(id)
	if err != nil {
		return err
	}

	pending.task.Complete(outcome)

	return nil
}

// CancelCeremony settles a pending ceremony as abandoned by the user
func (b *Bridge) CancelCeremony(id string) error {
	pending, err := b.takeCeremony(id)
	if err != nil {
		return err
	}

	pending.task.Cancel()

	return nil
}

func (b *Bridge) takeCeremony(id string) (*PendingCeremony, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending, ok := b.ceremonies[id]
	if !ok {
		return nil, errors.Errorf("no pending ceremony %q", id)
	}
	delete(b.ceremonies, id)

	return pending, nil
}

// Connect registers a pending connect approval and waits for the frontend
func (b *Bridge) Connect(ctx context.Context) (*provider.ConnectorSession, error) {
	pending := b.addApproval("connect", nil)
	defer b.removeApproval(pending.ID)

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case session := <-pending.session:
		return session, nil
	case err := <-pending.failed:
		return nil, err
	case <-timer.C:
		return nil, provider.ErrCeremonyTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Disconnect is a no-op; connector session state lives in the frontend
func (b *Bridge) Disconnect(context.Context) error {
	return nil
}

// SignTransaction registers a pending signature approval and waits
func (b *Bridge) SignTransaction(ctx context.Context, payload []byte) ([]byte, error) {
	pending := b.addApproval("sign", payload)
	defer b.removeApproval(pending.ID)

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case signed := <-pending.signed:
		return signed, nil
	case err := <-pending.failed:
		return nil, err
	case <-timer.C:
		return nil, provider.ErrCeremonyTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Approvals lists the unsettled connector approvals
func (b *Bridge) Approvals() []*PendingApproval {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*PendingApproval, 0, len(b.approvals))
	for _, pending := range b.approvals {
		out = append(out, pending)
	}

	return out
}

// ApproveConnection settles a pending connect approval with the session
func (b *Bridge) ApproveConnection(id string, session *provider.ConnectorSession) error {
	pending, err := b.approval(id, "connect")
	if err != nil {
		return err
	}

	select {
	case pending.session <- session:
		return nil
	default:
		return errors.Errorf("approval %q already settled", id)
	}
}

// ProvideSignature settles a pending sign approval with the signed payload
func (b *Bridge) ProvideSignature(id string, signed []byte) error {
	pending, err := b.approval(id, "sign")
	if err != nil {
		return err
	}

	select {
	case pending.signed <- signed:
		return nil
	default:
		return errors.Errorf("approval %q already settled", id)
	}
}

// RejectApproval settles a pending approval as declined in the wallet
func (b *Bridge) RejectApproval(id string) error {
	b.mu.Lock()
	pending, ok := b.approvals[id]
	b.mu.Unlock()

	if !ok {
		return errors.Errorf("no pending approval %q", id)
	}

	select {
	case pending.failed <- provider.ErrConnectionRejected:
		return nil
	default:
		return errors.Errorf("approval %q already settled", id)
	}
}

func (b *Bridge) addApproval(kind string, payload []byte) *PendingApproval {
	pending := &PendingApproval{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   payload,
		StartedAt: time.Now(),
		session:   make(chan *provider.ConnectorSession, 1),
		signed:    make(chan []byte, 1),
		failed:    make(chan error, 1),
	}

	b.mu.Lock()
	b.approvals[pending.ID] = pending
	b.mu.Unlock()

	return pending
}

func (b *Bridge) removeApproval(id string) {
	b.mu.Lock()
	delete(b.approvals, id)
	b.mu.Unlock()
}

func (b *Bridge) approval(id, kind string) (*PendingApproval, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending, ok := b.approvals[id]
	if !ok {
		return nil, errors.Errorf("no pending approval %q", id)
	}
	if pending.Kind != kind {
		return nil, errors.Errorf("approval %q is %s, not %s", id, pending.Kind, kind)
	}

	return pending, nil
}
