package library

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrBadSignature      = errors.New("signature does not verify")
)

func Sha256Sum(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// PrivateKey is a secp256k1 secret key used for BIP-340 signatures.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// GeneratePrivateKey makes a new random key.
func GeneratePrivateKey() (*PrivateKey, error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: sk}, nil
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidPrivateKey, btcec.PrivKeyBytesLen, len(b))
	}
	sk, _ := btcec.PrivKeyFromBytes(b)
	if sk.Key.IsZero() {
		return nil, fmt.Errorf("%w: key is zero", ErrInvalidPrivateKey)
	}
	return &PrivateKey{key: sk}, nil
}

func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err.Error())
	}
	return PrivateKeyFromBytes(b)
}

func (k *PrivateKey) Hex() string {
	return hex.EncodeToString(k.key.Serialize())
}

// PublicKey returns the x-only public key for k.
func (k *PrivateKey) PublicKey() (pk PublicKey) {
	copy(pk[:], schnorr.SerializePubKey(k.key.PubKey()))
	return
}

// SignHash makes a BIP-340 signature over a 32 byte digest.
func (k *PrivateKey) SignHash(hash [32]byte) (s Signature, e error) {
	sig, err := schnorr.Sign(k.key, hash[:])
	if err != nil {
		return s, err
	}
	copy(s[:], sig.Serialize())
	return s, nil
}

// VerifyHash checks a BIP-340 signature over a 32 byte digest.
func VerifyHash(hash [32]byte, sig Signature, pk PublicKey) error {
	pubkey, err := schnorr.ParsePubKey(pk[:])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPublicKey, err.Error())
	}
	s, err := schnorr.ParseSignature(sig[:])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadSignature, err.Error())
	}
	if !s.Verify(hash[:], pubkey) {
		return ErrBadSignature
	}
	return nil
}

// XOnlyFromCompressed converts a 33 byte compressed secp256k1 key to x-only form.
func XOnlyFromCompressed(b []byte) (pk PublicKey, e error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return pk, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err.Error())
	}
	copy(pk[:], schnorr.SerializePubKey(pub))
	return pk, nil
}

// LeadingZeroBits counts zero bits from the most significant bit of b. The
// count saturates at 255, which only an all zero 32 byte id can reach.
func LeadingZeroBits(b []byte) uint8 {
	n := 0
	for _, x := range b {
		if x != 0 {
			n += bits.LeadingZeros8(x)
			break
		}
		n += 8
	}
	if n > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(n)
}
