package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-labs/courtcam/internal/relay"
)

func TestCache_EmptyBeforeFirstLoad(t *testing.T) {
	c := NewCache("cam-1")

	got := c.Current()
	require.NotNil(t, got, "callers render this directly, nil would serialize as null")
	assert.Empty(t, got)
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	c := NewCache("cam-1")

	c.Replace("cam-1", []relay.Recording{
		{Name: "court_001.mp4", SizeBytes: 100},
		{Name: "court_002.mp4", SizeBytes: 200},
	})
	ok := c.Replace("cam-1", []relay.Recording{{Name: "court_003.mp4", SizeBytes: 300}})

	require.True(t, ok)
	got := c.Current()
	require.Len(t, got, 1, "old entries must not survive a new listing")
	assert.Equal(t, "court_003.mp4", got[0].Name)
}

func TestCache_ForeignListingIgnored(t *testing.T) {
	c := NewCache("cam-1")
	c.Replace("cam-1", []relay.Recording{{Name: "court_001.mp4", SizeBytes: 100}})

	ok := c.Replace("cam-2", []relay.Recording{{Name: "other.mp4", SizeBytes: 1}})

	assert.False(t, ok)
	got := c.Current()
	require.Len(t, got, 1)
	assert.Equal(t, "court_001.mp4", got[0].Name)
}

func TestCache_ReplaceToEmpty(t *testing.T) {
	c := NewCache("cam-1")
	c.Replace("cam-1", []relay.Recording{{Name: "court_001.mp4", SizeBytes: 100}})

	ok := c.Replace("cam-1", nil)

	require.True(t, ok)
	assert.Empty(t, c.Current(), "an empty listing is a valid listing")
}

func TestCache_CopiesCallerSlice(t *testing.T) {
	c := NewCache("cam-1")
	files := []relay.Recording{{Name: "court_001.mp4", SizeBytes: 100}}
	c.Replace("cam-1", files)

	files[0].Name = "mutated.mp4"

	assert.Equal(t, "court_001.mp4", c.Current()[0].Name)
}
