package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	data, err := EncodeEvent(ChangeEvent{Type: ChangeUpdate, Table: "sessions", RowID: "s1"})
	require.NoError(t, err)

	var event ChangeEvent
	require.NoError(t, DecodeEvent(data, &event))
	assert.Equal(t, ChangeUpdate, event.Type)
	assert.Equal(t, "sessions", event.Table)
	assert.Equal(t, "s1", event.RowID)
}

func TestChannelIDsAreUniquePerSubscriber(t *testing.T) {
	a := &subscriber{channelID: newChannelID()}
	b := &subscriber{channelID: newChannelID()}
	assert.NotEqual(t, a.channelID, b.channelID)
}
