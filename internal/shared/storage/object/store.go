package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Open when no object exists under the key.
var ErrNotExist = errors.New("object does not exist")

// ObjectStore defines the contract for saving and retrieving keyed objects
// in a flat namespace.
type ObjectStore interface {
	// Put writes r under key, creating the storage area if needed and
	// replacing any existing object with the same key.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns every key currently present. A storage area that does
	// not exist yet yields an empty list.
	List(ctx context.Context) ([]string, error)
}
