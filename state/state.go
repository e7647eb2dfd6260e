// Package state keeps what outlives a run: the last filtered fix of each subject.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/fix"
	"go.etcd.io/bbolt"
)

var ErrReadOnly = errors.New("state is read-only")

// State is a bbolt database of last fixes, fronted by an LRU cache.
// It is safe for concurrent use.
type State struct {
	DB    *bbolt.DB
	cache *lru.Cache[conceptual.SubjectID, fix.Fix]
	mu    sync.Mutex
	rOnly bool
}

// Open opens (or creates) the state database under dir.
// Opening a writable DB will block all other writers and readers
// with essentially a file lock/flock.
func Open(dir string, readOnly bool) (*State, error) {
	if !readOnly {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return nil, err
		}
	}
	db, err := bbolt.Open(filepath.Join(dir, params.StateDBName), 0600, &bbolt.Options{
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, err
	}
	s := &State{DB: db, rOnly: readOnly}
	s.cache, err = lru.NewWithEvict[conceptual.SubjectID, fix.Fix](params.DefaultLastFixCacheSize, s.onEvict)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// onEvict writes an evicted last fix back to the database.
func (s *State) onEvict(id conceptual.SubjectID, f fix.Fix) {
	if s.rOnly {
		return
	}
	err := s.DB.Update(func(tx *bbolt.Tx) error {
		return putFix(tx, id, f)
	})
	if err != nil {
		slog.Error("Failed to store evicted last fix", "subject", id, "error", err)
	}
}

func putFix(tx *bbolt.Tx, id conceptual.SubjectID, f fix.Fix) error {
	bucket, err := tx.CreateBucketIfNotExists(params.StateLastFixBucket)
	if err != nil {
		return err
	}
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(id), b)
}

// Close flushes the cache and closes the database.
func (s *State) Close() error {
	if err := s.Flush(); err != nil {
		_ = s.DB.Close()
		return err
	}
	return s.DB.Close()
}

// LastFix returns the last fix stored for id, or nil if there is none.
func (s *State) LastFix(id conceptual.SubjectID) (*fix.Fix, error) {
	if f, ok := s.cache.Get(id); ok {
		return &f, nil
	}
	var data []byte
	err := s.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(params.StateLastFixBucket)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(id)); v != nil {
			data = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}
	f := fix.Fix{}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode last fix of %s: %w", id, err)
	}
	s.cache.Add(id, f)
	return &f, nil
}

// SetLastFix caches f as the last fix of id.
// Cached fixes are written to the database when evicted, and on Flush.
func (s *State) SetLastFix(id conceptual.SubjectID, f fix.Fix) error {
	if s.rOnly {
		return ErrReadOnly
	}
	s.cache.Add(id, f)
	return nil
}

// Flush writes all cached last fixes to the database.
func (s *State) Flush() error {
	if s.rOnly {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.cache.Keys()
	return s.DB.Update(func(tx *bbolt.Tx) error {
		for _, id := range keys {
			f, ok := s.cache.Peek(id)
			if !ok {
				continue
			}
			if err := putFix(tx, id, f); err != nil {
				return err
			}
		}
		slog.Debug("Flushed last fixes", "n", len(keys))
		return nil
	})
}
