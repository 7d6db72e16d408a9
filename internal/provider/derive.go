package provider

import (
	"crypto/ecdsa"
	"crypto/sha512"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// BIP39-style stretching of the ceremony secret into a wallet seed
	pbkdf2Iterations = 2048
	pbkdf2KeyLength  = 64

	// m/44'/818'/0'/0/0, BIP44 with the VET coin type
	hardenedOffset = 0x80000000
	purposeIndex   = hardenedOffset + 44
	coinTypeVET    = hardenedOffset + 818
)

// deriveOwnerKey stretches the ceremony secret into a seed and derives the
// owner key at the fixed VET path. The caller owns the returned key; the
// intermediate material is cleared before returning.
func deriveOwnerKey(secret []byte, userID string) (*ecdsa.PrivateKey, error) {
	if len(secret) == 0 {
		return nil, errors.New("ceremony secret is empty")
	}

	seed := pbkdf2.Key(secret, []byte("mnemonic"+userID), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	defer clearBytes(seed)

	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	key := masterKey
	for _, index := range []uint32{purposeIndex, coinTypeVET, hardenedOffset, 0, 0} {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	privateKey := make([]byte, len(key.Key))
	copy(privateKey, key.Key)
	defer clearBytes(privateKey)

	ownerKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	return ownerKey, nil
}

// clearBytes zeroes sensitive material
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
