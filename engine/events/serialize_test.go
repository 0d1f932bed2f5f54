package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

func TestSerializeLayout(t *testing.T) {
	var pk library.PublicKey
	pk[31] = 0xab
	out, err := Serialize(pk, 1687616920, library.TextNote, []tags.Tag{
		tags.Hashtag{Hashtag: "nostr"},
		tags.Empty{},
		tags.Other{Tag: "x"},
	}, "hi")
	require.NoError(t, err)
	assert.Equal(t, `[0,"`+pk.Hex()+`",1687616920,1,[["t","nostr"],[],["x"]],"hi"]`, string(out))

	out, err = Serialize(pk, -5, library.Kind(4294967295), nil, "")
	require.NoError(t, err)
	assert.Equal(t, `[0,"`+pk.Hex()+`",-5,4294967295,[],""]`, string(out))
}

func TestSerializeEscaping(t *testing.T) {
	for in, want := range map[string]string{
		`plain`:          `"plain"`,
		`a"b`:            `"a\"b"`,
		`a\b`:            `"a\\b"`,
		"\n\r\t\b\f":     `"\n\r\t\b\f"`,
		"\x00\x01\x1f":   `"\u0000\u0001\u001f"`,
		"\x7f":           "\"\x7f\"",
		"</script>&":     `"</script>&"`,
		"é ☃ 🎉":          `"é ☃ 🎉"`,
		"\u2028":         "\"\u2028\"",
		"/":              `"/"`,
		"\x1b[0m":        `"\u001b[0m"`,
	} {
		got, err := appendString(nil, in)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), "%q", in)
	}
}

func TestSerializeRejectsMalformedUTF8(t *testing.T) {
	var pk library.PublicKey
	_, err := Serialize(pk, 0, library.TextNote, nil, "bad \xff")
	assert.ErrorIs(t, err, ErrMalformedUTF8)

	_, err = Serialize(pk, 0, library.TextNote, []tags.Tag{tags.Other{Tag: "x", Data: []string{"\xc3"}}}, "")
	assert.ErrorIs(t, err, ErrMalformedUTF8)

	_, err = New(PreEvent{Content: "\xff"}, mockKey(t))
	assert.ErrorIs(t, err, ErrMalformedUTF8)
}

func TestMatchesGoNostr(t *testing.T) {
	key := mockKey(t)
	e, err := New(PreEvent{
		PubKey:    key.PublicKey(),
		CreatedAt: 1680000000,
		Kind:      library.TextNote,
		Tags: []tags.Tag{
			tags.Event{ID: mockId(3), Marker: tags.Ptr("root")},
			tags.Pubkey{Pubkey: key.PublicKey()},
			tags.Hashtag{Hashtag: "nostr"},
		},
		Content: "hello from a plain note",
	}, key)
	require.NoError(t, err)

	n := e.ToNostr()
	ours, err := e.Serialize()
	require.NoError(t, err)
	assert.Equal(t, string(ours), string(n.Serialize()))
	assert.Equal(t, e.ID.Hex(), n.GetID())

	ok, err := n.CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)

	back, err := FromNostr(n)
	require.NoError(t, err)
	assert.Equal(t, e, back)
	assert.NoError(t, back.Verify(nil))
}

func TestGoNostrSignedEventVerifies(t *testing.T) {
	key := mockKey(t)
	e := mockEvent(t, key)
	n := e.ToNostr()
	n.Content = "signed by go-nostr"
	require.NoError(t, n.Sign(key.Hex()))

	back, err := FromNostr(n)
	require.NoError(t, err)
	assert.NoError(t, back.Verify(nil))
}
