package storage

import (
	"errors"
	"fmt"
)

const (
	ModelDir  = "model"
	UploadDir = "upload"
)

var (
	// DefaultDir is the root of the local file storage.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard,
// e.g. the uploaded datasets of a dashboard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key for a general implementation
type Key struct {
	Hash  int64  `json:"hash"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%v_%s", k.Name, k.Hash, k.Label)
}

// Persistence stores and loads json-compatible values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
