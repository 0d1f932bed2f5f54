package library

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestPublicKeyDerivation(t *testing.T) {
	// BIP-340 test vector 0
	sk, err := PrivateKeyFromHex("0000000000000000000000000000000000000000000000000000000000000003")
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower("F9308A019258C31049344F85F89D5229B531C845836F99B08601F113BCE036F9"), sk.PublicKey().Hex())
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000003", sk.Hex())
}

func TestVerifyKnownSignature(t *testing.T) {
	// BIP-340 test vector 1
	pk, err := PublicKeyFromHex("DFF1D77F2A671C5F36183726DB2341BE58FEAE1DA2DECED843240F7B502BA659")
	require.NoError(t, err)
	sig, err := SignatureFromHex("6896BD60EEAE296DB48A229FF71DFE071BDE413E6D43F917DC8DCF8C78DE33418906D11AC976ABCCB20B091292BFF4EA897EFCB639EA871CFA95F6DE339E4B0A")
	require.NoError(t, err)
	var msg [32]byte
	copy(msg[:], mustHex(t, "243F6A8885A308D313198A2E03707344A4093822299F31D0082EFA98EC4E6C89"))

	assert.NoError(t, VerifyHash(msg, sig, pk))
	msg[0] ^= 1
	assert.ErrorIs(t, VerifyHash(msg, sig, pk), ErrBadSignature)
}

func TestSignAndVerify(t *testing.T) {
	sk, err := GeneratePrivateKey()
	require.NoError(t, err)
	digest := Sha256Sum([]byte("hello"))

	sig, err := sk.SignHash(digest)
	require.NoError(t, err)
	require.NoError(t, VerifyHash(digest, sig, sk.PublicKey()))

	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	assert.Error(t, VerifyHash(digest, sig, other.PublicKey()))

	sig[63] ^= 0x01
	assert.Error(t, VerifyHash(digest, sig, sk.PublicKey()))
}

func TestPrivateKeyFromBytesRejectsBadKeys(t *testing.T) {
	_, err := PrivateKeyFromBytes(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = PrivateKeyFromBytes(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = PrivateKeyFromHex("zz")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestXOnlyFromCompressed(t *testing.T) {
	sk, err := GeneratePrivateKey()
	require.NoError(t, err)
	compressed := sk.key.PubKey().SerializeCompressed()

	pk, err := XOnlyFromCompressed(compressed)
	require.NoError(t, err)
	assert.Equal(t, sk.PublicKey(), pk)

	_, err = XOnlyFromCompressed(compressed[1:])
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestLeadingZeroBits(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		want uint8
	}{
		{nil, 0},
		{[]byte{0x80}, 0},
		{[]byte{0x01}, 7},
		{[]byte{0x00, 0x0f}, 12},
		{[]byte{0x00, 0x00}, 16},
		{[]byte{0x00, 0x00, 0x7f, 0x00}, 17},
	} {
		assert.Equal(t, tc.want, LeadingZeroBits(tc.in), "%x", tc.in)
	}
	var id Id
	assert.Equal(t, uint8(255), LeadingZeroBits(id[:]))
}
