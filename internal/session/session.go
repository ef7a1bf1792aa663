// Package session persists cursor positions between runs. Positions are
// keyed by absolute file path in a bbolt database; values are small
// JSON documents of the form {"line":N,"column":N}.
package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	bolt "go.etcd.io/bbolt"
)

const cursorBucket = "cursors"

// ErrNoPosition is returned by Cursor when nothing is stored for a path.
var ErrNoPosition = errors.New("no stored position")

// Store is a bbolt-backed session database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the session database at path and ensures the
// cursor bucket exists. The open times out rather than blocking forever
// on a database held by another process.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cursorBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize session db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCursor stores the cursor position for the file at path.
func (s *Store) SaveCursor(path string, line, column int) error {
	key, err := storeKey(path)
	if err != nil {
		return err
	}
	doc, err := sjson.Set("", "line", line)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	doc, err = sjson.Set(doc, "column", column)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cursorBucket)).Put([]byte(key), []byte(doc))
	})
}

// Cursor returns the stored position for the file at path. Missing
// fields read as zero.
func (s *Store) Cursor(path string) (line, column int, err error) {
	key, err := storeKey(path)
	if err != nil {
		return 0, 0, err
	}
	var doc []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(cursorBucket)).Get([]byte(key))
		if v == nil {
			return ErrNoPosition
		}
		doc = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	line = int(gjson.GetBytes(doc, "line").Int())
	column = int(gjson.GetBytes(doc, "column").Int())
	return line, column, nil
}

// storeKey normalizes a file path so relative and absolute spellings of
// the same file share one record.
func storeKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session key for %s: %w", path, err)
	}
	return abs, nil
}
