// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package snapshot persists paused VM state in a bbolt database, keyed
// by name, so a host can resume a program later.
package snapshot

import (
	"errors"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ezrec/bytevm/image"
	"github.com/ezrec/bytevm/translate"
	"github.com/ezrec/bytevm/vm"
)

var f = translate.From

var (
	ErrNotFound = errors.New(f("snapshot not found"))
	ErrCorrupt  = errors.New(f("snapshot corrupt"))
	ErrVersion  = errors.New(f("snapshot version unsupported"))
	ErrName     = errors.New(f("snapshot name empty"))
	ErrImage    = errors.New(f("snapshot is of a different program image"))
)

// OPEN_TIMEOUT bounds the wait for another process holding the database.
const OPEN_TIMEOUT = 5 * time.Second

var bucketSnapshots = []byte("snapshots")

// Store of named snapshots.
type Store struct {
	Verbose bool // If set, logs every save and load.

	db *bolt.DB
}

// Open creates or opens a store at path.
func Open(path string) (store *Store, err error) {
	opts := &bolt.Options{
		Timeout: OPEN_TIMEOUT,
	}

	db, err := bolt.Open(path, 0600, opts)
	if err != nil {
		return
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return
	}

	store = &Store{db: db}
	return
}

// Close the store.
func (store *Store) Close() error {
	return store.db.Close()
}

// Save state under name, replacing any earlier snapshot of that name.
// program is the digest of the image the state was run from. The
// returned id is the digest of the stored record.
func (store *Store) Save(name string, program image.Digest, state vm.State) (id image.Digest, err error) {
	if len(name) == 0 {
		err = ErrName
		return
	}

	record, err := encode(program, state)
	if err != nil {
		return
	}
	copy(id[:], record)

	err = store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(name), record)
	})
	if err != nil {
		return
	}

	if store.Verbose {
		log.Printf("snapshot: save %v: %v (%d bytes)", name, id, len(record))
	}

	return
}

// Load the state saved under name. The snapshot must have been saved
// from the program image with digest program, else ErrImage.
func (store *Store) Load(name string, program image.Digest) (state vm.State, err error) {
	var record []byte
	err = store.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketSnapshots).Get([]byte(name))
		if value == nil {
			return ErrNotFound
		}
		// Values are only valid inside the transaction.
		record = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return
	}

	saved, state, err := decode(record)
	if err != nil {
		return
	}

	if saved != program {
		state = vm.State{}
		err = ErrImage
		return
	}

	if store.Verbose {
		log.Printf("snapshot: load %v: %d instructions", name, state.Instructions)
	}

	return
}

// Delete the snapshot saved under name.
func (store *Store) Delete(name string) (err error) {
	return store.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(name))
	})
}

// Names of every snapshot, in sorted order.
func (store *Store) Names() (names []string, err error) {
	err = store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(key, _ []byte) error {
			names = append(names, string(key))
			return nil
		})
	})
	return
}
