// Package keystore keeps one-time key pairs in LevelDB, keyed by identity,
// together with a counter of how many signatures each pair has produced.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"ringOTS-Signature/keys"
)

var (
	// ErrNotFound reports an identity with no stored key pair.
	ErrNotFound = errors.New("keystore: identity not found")
	// ErrExists reports an attempt to overwrite a stored key pair.
	ErrExists = errors.New("keystore: identity already exists")
)

var pairPrefix = []byte("pair/")

type record struct {
	Scheme  string    `json:"scheme"`
	Private []byte    `json:"private"`
	Public  []byte    `json:"public"`
	Uses    int       `json:"uses"`
	Created time.Time `json:"created"`
}

// Entry is a stored key pair and its usage count.
type Entry struct {
	Identity string
	Pair     keys.KeyPair
	Uses     int
	Created  time.Time
}

// Store wraps a LevelDB database.
type Store struct {
	mu sync.Mutex
	db *leveldb.DB
}

// Open opens or creates the database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("keystore: create %s: %w", dir, err)
	}
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("keystore: open leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func dbKey(identity string) []byte {
	return append(append([]byte(nil), pairPrefix...), identity...)
}

// Put stores kp under identity. Existing identities are never overwritten.
func (s *Store) Put(identity string, kp keys.KeyPair) error {
	if identity == "" {
		return fmt.Errorf("keystore: empty identity")
	}
	sk, err := keys.MarshalPrivateKeyDER(kp.Private)
	if err != nil {
		return err
	}
	pk, err := keys.MarshalPublicKeyDER(kp.Public)
	if err != nil {
		return err
	}
	data, err := json.Marshal(record{
		Scheme:  kp.Scheme().String(),
		Private: sk,
		Public:  pk,
		Created: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := dbKey(identity)
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("keystore: lookup %q: %w", identity, err)
	}
	if ok {
		return fmt.Errorf("%w: %q", ErrExists, identity)
	}
	if err := s.db.Put(key, data, nil); err != nil {
		return fmt.Errorf("keystore: save %q: %w", identity, err)
	}
	return nil
}

func (s *Store) load(identity string) (record, error) {
	var rec record
	data, err := s.db.Get(dbKey(identity), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return rec, fmt.Errorf("%w: %q", ErrNotFound, identity)
	}
	if err != nil {
		return rec, fmt.Errorf("keystore: load %q: %w", identity, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("keystore: decode %q: %w", identity, err)
	}
	return rec, nil
}

// Get returns the key pair stored under identity.
func (s *Store) Get(identity string) (*Entry, error) {
	s.mu.Lock()
	rec, err := s.load(identity)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sk, err := keys.ParsePrivateKeyDER(rec.Private)
	if err != nil {
		return nil, fmt.Errorf("keystore: %q private key: %w", identity, err)
	}
	pk, err := keys.ParsePublicKeyDER(rec.Public)
	if err != nil {
		return nil, fmt.Errorf("keystore: %q public key: %w", identity, err)
	}
	kp, err := keys.NewKeyPair(sk, pk)
	if err != nil {
		return nil, err
	}
	return &Entry{Identity: identity, Pair: kp, Uses: rec.Uses, Created: rec.Created}, nil
}

// MarkUsed increments the usage counter of identity and returns the new
// value. Anything above 1 means the one-time key has been reused.
func (s *Store) MarkUsed(identity string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load(identity)
	if err != nil {
		return 0, err
	}
	rec.Uses++
	data, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	if err := s.db.Put(dbKey(identity), data, nil); err != nil {
		return 0, fmt.Errorf("keystore: save %q: %w", identity, err)
	}
	return rec.Uses, nil
}

// Delete removes identity. Deleting a missing identity is not an error.
func (s *Store) Delete(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Delete(dbKey(identity), nil)
}

// List returns every stored identity in key order.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iter := s.db.NewIterator(util.BytesPrefix(pairPrefix), nil)
	defer iter.Release()
	var out []string
	for iter.Next() {
		out = append(out, string(iter.Key()[len(pairPrefix):]))
	}
	return out, iter.Error()
}
