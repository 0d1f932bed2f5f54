package library

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr/nip19"
)

// Npub renders pk as a NIP-19 npub string.
func (pk PublicKey) Npub() (string, error) {
	return nip19.EncodePublicKey(pk.Hex())
}

// Note renders id as a NIP-19 note string.
func (id Id) Note() (string, error) {
	return nip19.EncodeNote(id.Hex())
}

func (k *PrivateKey) Nsec() (string, error) {
	return nip19.EncodePrivateKey(k.Hex())
}

// PublicKeyFromNpub decodes a NIP-19 npub string.
func PublicKeyFromNpub(s string) (PublicKey, error) {
	prefix, value, err := nip19.Decode(s)
	if err != nil {
		return PublicKey{}, err
	}
	h, ok := value.(string)
	if prefix != "npub" || !ok {
		return PublicKey{}, fmt.Errorf("%w: expected npub, got %s", ErrInvalidPublicKey, prefix)
	}
	return PublicKeyFromHex(h)
}

// PrivateKeyFromNsec decodes a NIP-19 nsec string.
func PrivateKeyFromNsec(s string) (*PrivateKey, error) {
	prefix, value, err := nip19.Decode(s)
	if err != nil {
		return nil, err
	}
	h, ok := value.(string)
	if prefix != "nsec" || !ok {
		return nil, fmt.Errorf("%w: expected nsec, got %s", ErrInvalidPrivateKey, prefix)
	}
	return PrivateKeyFromHex(h)
}
