package store

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/djthomann/snackman/level"
)

var ErrGridNotFound = errors.New("grid not found")

var gridsBucket = []byte("grids")

// Grids is an on-disk library of saved maze layouts keyed by name. Values
// are the grid text format.
type Grids struct {
	filename string
	database *bolt.DB
}

// Open creates or opens the grid library at filename
func Open(filename string) (*Grids, error) {
	db, err := bolt.Open(filename, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open grid store %s: %w", filename, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(gridsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init grid store %s: %w", filename, err)
	}
	return &Grids{filename: filename, database: db}, nil
}

func (s *Grids) Close() error {
	if s.database == nil {
		return nil
	}
	return s.database.Close()
}

// Put stores g under name, replacing any earlier grid of that name
func (s *Grids) Put(name string, g *level.Grid) error {
	if name == "" {
		return errors.New("put grid: empty name")
	}
	var buf bytes.Buffer
	if err := level.Write(&buf, g); err != nil {
		return err
	}
	return s.database.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(gridsBucket).Put([]byte(name), buf.Bytes())
	})
}

// Get loads a fresh copy of the grid stored under name
func (s *Grids) Get(name string) (*level.Grid, error) {
	var text []byte
	err := s.database.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(gridsBucket).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrGridNotFound, name)
		}
		// v is only valid inside the transaction
		text = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return level.Read(bytes.NewReader(text))
}

// Names lists stored grids in key order
func (s *Grids) Names() ([]string, error) {
	var names []string
	err := s.database.View(func(tx *bolt.Tx) error {
		return tx.Bucket(gridsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Delete removes name. Deleting a missing grid is not an error.
func (s *Grids) Delete(name string) error {
	return s.database.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(gridsBucket).Delete([]byte(name))
	})
}
