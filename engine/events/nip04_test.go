package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrevents/engine/library"
)

func TestDirectMessages(t *testing.T) {
	alice, bob, eve := mockKey(t), mockKey(t), mockKey(t)

	pre, err := NewNIP04(alice, bob.PublicKey(), "meet at noon")
	require.NoError(t, err)
	assert.Equal(t, library.EncryptedDirectMessage, pre.Kind)
	assert.Contains(t, pre.Content, "?iv=")
	assert.NotContains(t, pre.Content, "noon")

	e, err := New(pre, alice)
	require.NoError(t, err)
	require.NoError(t, e.Verify(nil))
	require.Len(t, e.People(), 1)
	assert.Equal(t, bob.PublicKey(), e.People()[0].Pubkey)

	plain, err := e.DecryptedContents(bob)
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", plain)

	plain, err = e.DecryptedContents(alice)
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", plain)

	plain, err = e.DecryptedContents(eve)
	if err == nil {
		assert.NotEqual(t, "meet at noon", plain)
	}
}

func TestDecryptedContentsErrors(t *testing.T) {
	key := mockKey(t)
	_, err := unsigned(library.TextNote, "x?iv=y").DecryptedContents(key)
	assert.ErrorIs(t, err, ErrWrongEventKind)

	_, err = unsigned(library.EncryptedDirectMessage, "no iv here").DecryptedContents(key)
	assert.ErrorIs(t, err, ErrBadEncryptedMessage)
}

func TestSetMetadata(t *testing.T) {
	key := mockKey(t)
	profile := Profile{Name: "alice", About: "says \"hi\"", Lud16: "alice@example.com"}
	pre, err := NewSetMetadata(key.PublicKey(), profile)
	require.NoError(t, err)
	assert.Equal(t, library.Metadata, pre.Kind)
	assert.JSONEq(t, `{"name":"alice","about":"says \"hi\"","lud16":"alice@example.com"}`, pre.Content)

	e, err := New(pre, key)
	require.NoError(t, err)
	got, err := e.Profile()
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	addr, ok := got.LightningAddress()
	assert.True(t, ok)
	assert.Equal(t, "alice@example.com", addr)

	_, ok = Profile{Lud16: "not an address"}.LightningAddress()
	assert.False(t, ok)
	_, ok = Profile{}.LightningAddress()
	assert.False(t, ok)

	_, err = unsigned(library.TextNote, "{}").Profile()
	assert.ErrorIs(t, err, ErrWrongEventKind)
}
