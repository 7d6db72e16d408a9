package provider

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/types"
)

var (
	// ErrCeremonyCancelled is resolved when the user closes the popup or
	// otherwise abandons the ceremony
	ErrCeremonyCancelled = errors.New("ceremony cancelled by user")

	// ErrPopupBlocked is returned by launchers when the environment
	// prevented the ceremony window from opening
	ErrPopupBlocked = errors.New("ceremony window blocked")

	// ErrCeremonyTimeout is resolved when the ceremony neither completed
	// nor was cancelled within the wait window
	ErrCeremonyTimeout = errors.New("ceremony timed out")
)

// CeremonyRequest describes the ceremony the launcher must open
type CeremonyRequest struct {
	Method        types.LoginMethod
	Email         string
	OAuthProvider string
	AppID         string
}

// CeremonyOutcome is delivered by the embedding application when the
// external ceremony completes
type CeremonyOutcome struct {
	// Secret is the owner key material released by the wallet service
	Secret []byte

	// UserID and SessionID identify the authenticated wallet-service user
	UserID    string
	SessionID string

	// Email is set for email logins
	Email string

	// App is set for cross-app ceremonies
	App *EcosystemApp
}

// Launcher opens an external authentication ceremony (popup, redirect or
// native passkey prompt) and hands back the task the UI completes.
type Launcher interface {
	// Launch opens the ceremony. Returns ErrPopupBlocked (wrapped or not)
	// when the environment refused to open it.
	Launch(ctx context.Context, req *CeremonyRequest) (*CeremonyTask, error)
}

type ceremonyResult struct {
	outcome *CeremonyOutcome
	err     error
}

// CeremonyTask is a cancellable, awaitable handle on an in-flight ceremony.
// Exactly one of Complete, Fail or Cancel settles the task; later calls are
// no-ops. Await never hangs: it resolves on settlement, timeout or context
// cancellation.
type CeremonyTask struct {
	once   sync.Once
	result chan ceremonyResult
	done   chan struct{}
}

// NewCeremonyTask creates an unsettled ceremony task
func NewCeremonyTask() *CeremonyTask {
	return &CeremonyTask{
		result: make(chan ceremonyResult, 1),
		done:   make(chan struct{}),
	}
}

func (t *CeremonyTask) settle(res ceremonyResult) {
	t.once.Do(func() {
		t.result <- res
		close(t.done)
	})
}

// Complete settles the task with a successful outcome
func (t *CeremonyTask) Complete(outcome *CeremonyOutcome) {
	t.settle(ceremonyResult{outcome: outcome})
}

// Fail settles the task with a failure
func (t *CeremonyTask) Fail(err error) {
	t.settle(ceremonyResult{err: err})
}

// Done is closed once the task settles, whichever side settles it first.
// Launchers use it to drop bookkeeping for abandoned ceremonies.
func (t *CeremonyTask) Done() <-chan struct{} {
	return t.done
}

// Cancel settles the task as abandoned by the user (popup closed,
// navigation away)
func (t *CeremonyTask) Cancel() {
	t.Fail(ErrCeremonyCancelled)
}

// Await blocks until the task settles, the timeout elapses or ctx is done.
// Giving up on the wait settles the task too, so nobody keeps advertising a
// ceremony whose caller is gone.
func (t *CeremonyTask) Await(ctx context.Context, timeout time.Duration) (*CeremonyOutcome, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-t.result:
		if res.err != nil {
			return nil, res.err
		}
		return res.outcome, nil
	case <-timer.C:
		t.Fail(ErrCeremonyTimeout)
		return nil, ErrCeremonyTimeout
	case <-ctx.Done():
		t.Fail(ctx.Err())
		return nil, ctx.Err()
	}
}
