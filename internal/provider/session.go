package provider

import (
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ownerSession holds the derived owner key for the lifetime of an
// embedded or cross-app connection, with thread-safe access.
type ownerSession struct {
	mu        sync.RWMutex
	key       *ecdsa.PrivateKey
	sessionID string
}

// set replaces the active session
func (s *ownerSession) set(key *ecdsa.PrivateKey, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = key
	s.sessionID = sessionID
}

// clear drops the active session. Safe to call when no session is active.
func (s *ownerSession) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = nil
	s.sessionID = ""
}

// id returns the wallet-service session id of the active session
func (s *ownerSession) id() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessionID
}

// address returns the owner address of the active session
func (s *ownerSession) address() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return common.Address{}, false
	}

	return crypto.PubkeyToAddress(s.key.PublicKey), true
}

// sign signs the keccak256 hash of payload with the owner key
func (s *ownerSession) sign(payload []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return nil, errors.New("no active session")
	}

	signature, err := crypto.Sign(crypto.Keccak256(payload), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign payload")
	}

	return signature, nil
}
