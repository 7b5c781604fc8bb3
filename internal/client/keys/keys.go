// Package keys generates the per-user secp256k1 identity that authorizes
// ledger writes and wraps it in a Signer so the rest of the client never
// handles raw key material.
package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned when a stored private key cannot be decoded.
var ErrInvalidKey = errors.New("invalid private key")

// Keypair is a freshly generated or decoded identity. Address is the EIP-55
// checksummed hex address; PrivateKey is the 32-byte key hex encoded without
// a 0x prefix.
type Keypair struct {
	Address    string
	PrivateKey string
}

// Generate creates a new random identity.
func Generate() (Keypair, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return Keypair{}, fmt.Errorf("generate key: %w", err)
	}
	return Keypair{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
	}, nil
}

// FromHex decodes a hex private key (with or without 0x) and derives its address.
func FromHex(privateKey string) (Keypair, error) {
	key, err := parseKey(privateKey)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
	}, nil
}

// Matches reports whether privateKey derives address. Address comparison is
// case-insensitive.
func Matches(privateKey, address string) bool {
	kp, err := FromHex(privateKey)
	if err != nil {
		return false
	}
	return strings.EqualFold(kp.Address, address)
}

func parseKey(privateKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// Signer is the signing capability bound to one identity.
type Signer interface {
	// Address is the identity the signer signs for.
	Address() common.Address
	// SignTx signs tx for the given chain using the latest signer rules.
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

type keySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner builds an in-process Signer from a hex private key.
func NewSigner(privateKey string) (Signer, error) {
	key, err := parseKey(privateKey)
	if err != nil {
		return nil, err
	}
	return &keySigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

func (s *keySigner) Address() common.Address {
	return s.address
}

func (s *keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}
