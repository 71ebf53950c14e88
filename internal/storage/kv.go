package storage

import (
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/taskflow/internal/errors"
)

// KV is string-keyed, string-valued synchronous storage.
// Get returns errors.ErrKeyNotFound for an absent key; Remove of an absent key succeeds.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// IsErrKeyNotFound returns true if the error is a key not found error.
func IsErrKeyNotFound(err error) bool {
	return stderrors.Is(err, errors.ErrKeyNotFound) || stderrors.Is(err, badger.ErrKeyNotFound)
}

// Get retrieves the value stored under key.
func (d *DB) Get(key string) (string, error) {
	var value string
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return "", errors.ErrKeyNotFound
		}
		return "", errors.NewStorageError("get", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(key, value string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return errors.NewStorageError("set", key, err)
	}
	return nil
}

// Remove deletes key.
func (d *DB) Remove(key string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return errors.NewStorageError("remove", key, err)
	}
	return nil
}

// Exists checks if a key exists in the database.
func (d *DB) Exists(key string) (bool, error) {
	_, err := d.Get(key)
	if err == nil {
		return true, nil
	}
	if IsErrKeyNotFound(err) {
		return false, nil
	}
	return false, err
}

// ListByPrefix retrieves all keys with the given prefix.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}
