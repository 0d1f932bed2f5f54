package pow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrevents/engine/events"
	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

func mockPreEvent(t *testing.T) (events.PreEvent, *library.PrivateKey) {
	t.Helper()
	key, err := library.GeneratePrivateKey()
	require.NoError(t, err)
	return events.PreEvent{
		PubKey:    key.PublicKey(),
		CreatedAt: 1680000000,
		Kind:      library.TextNote,
		Tags: []tags.Tag{
			tags.Nonce{Value: "99", Target: tags.Ptr("3")},
			tags.Hashtag{Hashtag: "pow"},
			tags.Nonce{Value: "100"},
		},
		Content: "mined",
	}, key
}

func TestMine(t *testing.T) {
	pre, key := mockPreEvent(t)
	original := tags.Clone(pre.Tags)

	e, err := Miner{Workers: 2}.Mine(pre, key, 8, nil)
	require.NoError(t, err)
	require.NoError(t, e.Verify(nil))

	assert.GreaterOrEqual(t, library.LeadingZeroBits(e.ID[:]), uint8(8))
	assert.Equal(t, uint8(8), e.Pow())
	assert.Equal(t, pre.CreatedAt, e.CreatedAt)

	require.Len(t, e.Tags, 2)
	assert.Equal(t, tags.Hashtag{Hashtag: "pow"}, e.Tags[0])
	nonce, ok := e.Tags[1].(tags.Nonce)
	require.True(t, ok)
	require.NotNil(t, nonce.Target)
	assert.Equal(t, "8", *nonce.Target)

	assert.Equal(t, original, pre.Tags, "caller's tags are untouched")
}

func TestMineReportsProgress(t *testing.T) {
	pre, key := mockPreEvent(t)
	progress := make(chan uint8, 64)

	e, err := Miner{Workers: 1}.Mine(pre, key, 6, progress)
	require.NoError(t, err)
	close(progress)

	var last uint8
	var reports int
	for work := range progress {
		assert.Greater(t, work, last, "with one worker reports only ever improve")
		last = work
		reports++
	}
	assert.Greater(t, reports, 0)
	assert.GreaterOrEqual(t, last, uint8(6))
	assert.Equal(t, library.LeadingZeroBits(e.ID[:]), last)
}

func TestMineZeroBits(t *testing.T) {
	pre, key := mockPreEvent(t)
	e, err := Mine(pre, key, 0, nil)
	require.NoError(t, err)
	assert.NoError(t, e.Verify(nil))
	assert.Equal(t, uint8(0), e.Pow())
}

func TestMineRejectsMalformedContent(t *testing.T) {
	pre, key := mockPreEvent(t)
	pre.Content = "\xff"
	_, err := Miner{Workers: 1}.Mine(pre, key, 4, nil)
	assert.ErrorIs(t, err, events.ErrMalformedUTF8)
}
