package cattrack

import (
	"fmt"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
)

// NewDedupeLRUFunc returns a filter passing each distinct track once,
// remembering the last size tracks seen.
// Clients retry pushes, so the same track can arrive more than once.
func NewDedupeLRUFunc(size int) func(CatTrack) bool {
	var dedupeCache = lru.New(size)
	return func(track CatTrack) bool {
		hash, err := hashstructure.Hash(track, hashstructure.FormatV2, nil)
		if err != nil {
			return true
		}
		key := fmt.Sprintf("%d", hash)
		if _, ok := dedupeCache.Get(key); ok {
			return false
		}
		dedupeCache.Add(key, true)
		return true
	}
}
