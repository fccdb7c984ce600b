package prefs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
)

var prefsBucket = []byte("preferences")

// BoltStore keeps preference documents in a local bolt file, one JSON
// value per user id.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the preferences database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open preferences db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(prefsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create preferences bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, userID string) (Preferences, error) {
	p := Default()
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(prefsBucket).Get([]byte(userID))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &p)
	})
	if err != nil {
		return Default(), fmt.Errorf("load preferences for %s: %w", userID, err)
	}
	return p, nil
}

func (s *BoltStore) Put(_ context.Context, userID string, p Preferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(prefsBucket).Put([]byte(userID), raw)
	})
	if err != nil {
		return fmt.Errorf("store preferences for %s: %w", userID, err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
