package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService backs the rate-limit block keys with a shared memcache
// instance, so a source blocked by one node stays blocked for all of them.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService connects to the memcache server at serverAddr
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a block key. A miss means the source is not blocked.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a block key; memcache expires it after ttl so a rate-limited
// source unblocks itself without any cleanup pass.
func (m *MemcacheService) Set(key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl.Seconds()),
	})
}

// Delete lifts a block before its ttl runs out
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}
