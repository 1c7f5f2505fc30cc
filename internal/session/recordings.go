package session

import "github.com/courtside-labs/courtcam/internal/relay"

// Cache holds the most recent recordings listing for one device. Listings
// are replaced wholesale, never merged; the relay is multi-tenant, so
// listings for other device identities are ignored.
//
// Cache is not safe for concurrent use; the session Controller is its
// single writer and reader.
type Cache struct {
	deviceID string
	entries  []relay.Recording
}

// NewCache creates an empty cache bound to one device identity.
func NewCache(deviceID string) *Cache {
	return &Cache{deviceID: deviceID}
}

// Replace swaps in a new listing. Returns false, leaving the cache
// untouched, when the listing is for a different device.
func (c *Cache) Replace(deviceID string, files []relay.Recording) bool {
	if deviceID != c.deviceID {
		return false
	}
	c.entries = make([]relay.Recording, len(files))
	copy(c.entries, files)
	return true
}

// Current returns the latest listing; empty before the first load. The
// returned slice is the cache's own and must not be mutated by callers.
func (c *Cache) Current() []relay.Recording {
	if c.entries == nil {
		return []relay.Recording{}
	}
	return c.entries
}
