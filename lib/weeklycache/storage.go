package weeklycache

import (
	"context"
	"errors"
)

// ErrNotCached is returned when no entry exists under a key.
var ErrNotCached = errors.New("not cached")

// Storage persists opaque entries under names. Read returns ErrNotCached
// for names that were never written, Write replaces any previous entry.
// Names may contain "/" to group entries.
type Storage interface {
	Exists(ctx context.Context, name string) (bool, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, contents []byte) error
}

// NamespacedStorage keeps its entries under "<namespace>/<name>" of the
// underlying storage, entries of other namespaces are never visible to it.
type NamespacedStorage struct {
	storage   Storage
	namespace string
}

func Namespace(storage Storage, namespace string) NamespacedStorage {
	return NamespacedStorage{storage: storage, namespace: namespace}
}

func (s NamespacedStorage) name(name string) string {
	return s.namespace + "/" + name
}

func (s NamespacedStorage) Exists(ctx context.Context, name string) (bool, error) {
	return s.storage.Exists(ctx, s.name(name))
}

func (s NamespacedStorage) Read(ctx context.Context, name string) ([]byte, error) {
	return s.storage.Read(ctx, s.name(name))
}

func (s NamespacedStorage) Write(ctx context.Context, name string, contents []byte) error {
	return s.storage.Write(ctx, s.name(name), contents)
}
