package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

const knownEvent = `{"id":"7760408f6459b9546c3a4e70e3e56756421fba34526b7d460db3fcfd2f8817db","pubkey":"460c25e682fda7832b52d1f22d3d22b3176d972f60dcdc3212ed8c92ef85065c","created_at":1687616920,"kind":1,"tags":[["p","1bc70a0148b3f316da33fe3c89f23e3e71ac4ff998027ec712b905cd24f6a411","","mention"],["a","30311:1bc70a0148b3f316da33fe3c89f23e3e71ac4ff998027ec712b905cd24f6a411:1687612774","","mention"]],"content":"Watching Karnage's stream to see if I learn something about design. \n\nnostr:naddr1qq9rzd3cxumrzv3hxu6qygqmcu9qzj9n7vtd5vl78jyly037wxkyl7vcqflvwy4eqhxjfa4yzypsgqqqwens0qfplk","sig":"dbc5d05a24bfe990a1faaedfcb81a98940d86a105711dbdad9145d05b0ad0f46e3e24eaa3fc283818f27e057fe836a029fd9a68e7f1de06ff477493199d64064"}`

func mockKey(t *testing.T) *library.PrivateKey {
	t.Helper()
	key, err := library.GeneratePrivateKey()
	require.NoError(t, err)
	return key
}

func mockId(b byte) (id library.Id) {
	for i := range id {
		id[i] = b
	}
	return
}

func mockEvent(t *testing.T, key *library.PrivateKey) *Event {
	t.Helper()
	e, err := New(PreEvent{
		PubKey:    key.PublicKey(),
		CreatedAt: 1680000000,
		Kind:      library.TextNote,
		Tags: []tags.Tag{
			tags.Event{ID: mockId(1), RelayURL: tags.Ptr(library.UncheckedURL("wss://relay.example.com"))},
		},
		Content: "Hello World!",
	}, key)
	require.NoError(t, err)
	return e
}

func TestKnownEvent(t *testing.T) {
	e, err := ParseJSON([]byte(knownEvent))
	require.NoError(t, err)

	require.NoError(t, e.Verify(nil))
	assert.Len(t, e.Tags, 2)
	assert.IsType(t, tags.Pubkey{}, e.Tags[0])
	assert.IsType(t, tags.Address{}, e.Tags[1])
	assert.Equal(t, "Watching Karnage's stream to see if I learn something about design. \n\nnostr:naddr1qq9rzd3cxumrzv3hxu6qygqmcu9qzj9n7vtd5vl78jyly037wxkyl7vcqflvwy4eqhxjfa4yzypsgqqqwens0qfplk", e.Content)

	out, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, knownEvent, string(out))
}

func TestNewAndVerify(t *testing.T) {
	key := mockKey(t)
	e := mockEvent(t, key)
	require.NoError(t, e.Verify(nil))

	e.Content = "I'm changing this message"
	err := e.Verify(nil)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	e.Content = "Hello World!"
	require.NoError(t, e.Verify(nil))

	id := e.ID
	e.ID = mockId(7)
	err = e.Verify(nil)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.False(t, errors.Is(err, ErrSignatureMismatch))
	e.ID = id

	e.Sig[10] ^= 0xff
	err = e.Verify(nil)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.False(t, errors.Is(err, ErrHashMismatch))
}

func TestVerifyRejectsEachFieldChange(t *testing.T) {
	key := mockKey(t)
	for name, mutate := range map[string]func(e *Event){
		"pubkey":     func(e *Event) { e.PubKey = mockKey(t).PublicKey() },
		"created_at": func(e *Event) { e.CreatedAt++ },
		"kind":       func(e *Event) { e.Kind = library.Reaction },
		"tags":       func(e *Event) { e.Tags = append(e.Tags, tags.Hashtag{Hashtag: "x"}) },
		"tag value":  func(e *Event) { e.Tags[0] = tags.Event{ID: mockId(2)} },
		"content":    func(e *Event) { e.Content += " " },
		"id":         func(e *Event) { e.ID[31] ^= 1 },
		"sig":        func(e *Event) { e.Sig[0] ^= 1 },
	} {
		t.Run(name, func(t *testing.T) {
			e := mockEvent(t, key)
			mutate(e)
			assert.Error(t, e.Verify(nil))
		})
	}
}

func TestVerifyMaxTime(t *testing.T) {
	e := mockEvent(t, mockKey(t))

	later := e.CreatedAt + 1
	assert.NoError(t, e.Verify(&later))
	same := e.CreatedAt
	assert.NoError(t, e.Verify(&same))

	earlier := e.CreatedAt - 1
	err := e.Verify(&earlier)
	assert.ErrorIs(t, err, ErrEventInFuture)
	assert.False(t, errors.Is(err, ErrHashMismatch))
	assert.False(t, errors.Is(err, ErrSignatureMismatch))
}

func TestOtsIsNotSigned(t *testing.T) {
	e := mockEvent(t, mockKey(t))
	e.Ots = tags.Ptr("proof")
	assert.NoError(t, e.Verify(nil))

	out, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"content":"Hello World!","ots":"proof","sig":"`)

	back, err := ParseJSON(out)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestUnmarshalJSON(t *testing.T) {
	e := mockEvent(t, mockKey(t))
	out, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ots")

	var back Event
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, *e, back)

	_, err = ParseJSON([]byte(`{"id":"00","pubkey":"","sig":""}`))
	assert.ErrorIs(t, err, library.ErrHexLength)
	_, err = ParseJSON([]byte(`[]`))
	assert.Error(t, err)
}

func TestPreEventCopiesTags(t *testing.T) {
	e := mockEvent(t, mockKey(t))
	pre := e.PreEvent()
	pre.Tags[0] = tags.Hashtag{Hashtag: "x"}
	assert.IsType(t, tags.Event{}, e.Tags[0])

	id, err := Hash(&pre)
	require.NoError(t, err)
	assert.NotEqual(t, e.ID, id)
}
