package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip04"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

var ErrBadEncryptedMessage = errors.New("encrypted message is not of the form <ciphertext>?iv=<iv>")

// NewNIP04 builds an unsigned kind 4 direct message to recipient, encrypted
// with the secret shared between key and recipient.
func NewNIP04(key *library.PrivateKey, recipient library.PublicKey, message string) (PreEvent, error) {
	secret, err := nip04.ComputeSharedSecret(recipient.Hex(), key.Hex())
	if err != nil {
		return PreEvent{}, fmt.Errorf("computing shared secret: %w", err)
	}
	content, err := nip04.Encrypt(message, secret)
	if err != nil {
		return PreEvent{}, err
	}
	return PreEvent{
		PubKey:    key.PublicKey(),
		CreatedAt: library.Now(),
		Kind:      library.EncryptedDirectMessage,
		Tags:      []tags.Tag{tags.Pubkey{Pubkey: recipient}},
		Content:   content,
	}, nil
}

// DecryptedContents decrypts a kind 4 event with key. When key is the author,
// the first 'p' tag names the other side of the conversation.
func (e *Event) DecryptedContents(key *library.PrivateKey) (string, error) {
	if e.Kind != library.EncryptedDirectMessage {
		return "", ErrWrongEventKind
	}
	if parts := strings.Split(e.Content, "?iv="); len(parts) != 2 {
		return "", ErrBadEncryptedMessage
	}
	other := e.PubKey
	if other == key.PublicKey() {
		if people := e.People(); len(people) > 0 {
			other = people[0].Pubkey
		}
	}
	secret, err := nip04.ComputeSharedSecret(other.Hex(), key.Hex())
	if err != nil {
		return "", fmt.Errorf("computing shared secret: %w", err)
	}
	return nip04.Decrypt(e.Content, secret)
}
