package library

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrHexLength = errors.New("hex string has the wrong length")
	ErrHex       = errors.New("invalid hex string")
)

// Id is the sha256 digest of an event's canonical serialization.
type Id [32]byte

// PublicKey is a BIP-340 x-only public key.
type PublicKey [32]byte

// Signature is a BIP-340 schnorr signature.
type Signature [64]byte

// Unixtime is seconds since the epoch. Values from the network are never trusted.
type Unixtime int64

// MilliSatoshi is a lightning amount.
type MilliSatoshi uint64

func (id Id) Hex() string        { return hex.EncodeToString(id[:]) }
func (id Id) String() string     { return id.Hex() }
func (pk PublicKey) Hex() string { return hex.EncodeToString(pk[:]) }
func (pk PublicKey) String() string {
	return pk.Hex()
}
func (s Signature) Hex() string    { return hex.EncodeToString(s[:]) }
func (s Signature) String() string { return s.Hex() }

func (t Unixtime) String() string { return strconv.FormatInt(int64(t), 10) }
func (t Unixtime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// Now returns the current Unixtime.
func Now() Unixtime {
	return Unixtime(time.Now().Unix())
}

// IdFromHex decodes a 64 character hex string in either case.
func IdFromHex(s string) (id Id, err error) {
	err = decodeFixed(id[:], s)
	return
}

// PublicKeyFromHex decodes a 64 character hex string in either case.
func PublicKeyFromHex(s string) (pk PublicKey, err error) {
	err = decodeFixed(pk[:], s)
	return
}

// SignatureFromHex decodes a 128 character hex string in either case.
func SignatureFromHex(s string) (sig Signature, err error) {
	err = decodeFixed(sig[:], s)
	return
}

// IsLowerHex reports whether s is exactly n bytes of lowercase hex, i.e. whether
// decoding and re-encoding s gives back the same string.
func IsLowerHex(s string, n int) bool {
	if len(s) != n*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

func decodeFixed(dst []byte, s string) error {
	if len(s) != len(dst)*2 {
		return fmt.Errorf("%w: got %d characters, want %d", ErrHexLength, len(s), len(dst)*2)
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("%w: %s", ErrHex, err.Error())
	}
	return nil
}
