package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Source is something that can hand back the current catalog blob. The
// resolver consults it on every open; implementations are expected to
// cache aggressively since the catalog is static for a given gateware
// image and opens happen on every TFTP request.
type Source interface {
	// Catalog returns the current Catalog. Implementations may return a
	// cached value; they are responsible for invalidating that cache when
	// the underlying gateware image changes.
	Catalog(ctx context.Context) (*Catalog, error)
}

// MemorySource serves a fixed, in-process catalog blob. This is the
// collaborator used in tests and single-node deployments: no locking is
// needed because the blob is immutable once constructed.
type MemorySource struct {
	cat *Catalog
}

// NewMemorySource wraps raw (a length-prefixed catalog blob, see
// [Catalog]) as a Source.
func NewMemorySource(raw []byte) *MemorySource {
	return &MemorySource{cat: New(raw)}
}

// Catalog returns the wrapped catalog. The context is unused; it is
// accepted to satisfy Source uniformly with EtcdSource.
func (m *MemorySource) Catalog(context.Context) (*Catalog, error) {
	return m.cat, nil
}

// EtcdSource fetches the catalog blob from a single etcd key, for
// deployments where several tapcpd replicas must agree on one gateware
// image without each needing local flash access. Every call does one etcd
// Get of the key; the parsed Catalog is cached and only rebuilt when the
// key's mod-revision has changed.
type EtcdSource struct {
	client *clientv3.Client
	key    string

	mu       sync.Mutex
	cached   *Catalog
	modRev   int64
	fetchErr error
}

// NewEtcdSource returns an EtcdSource reading the catalog blob from key on
// the given etcd client. The caller retains ownership of client and must
// close it when finished.
func NewEtcdSource(client *clientv3.Client, key string) *EtcdSource {
	return &EtcdSource{client: client, key: key}
}

// Catalog gets the key's current value and mod-revision and, if the
// revision has changed since the last successful fetch, re-parses the blob;
// otherwise it returns the cached Catalog.
func (e *EtcdSource) Catalog(ctx context.Context) (*Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := e.client.Get(ctx, e.key)
	if err != nil {
		return nil, fmt.Errorf("catalog: etcd get %q: %w", e.key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("catalog: etcd key %q not found", e.key)
	}
	kv := resp.Kvs[0]

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cached != nil && kv.ModRevision == e.modRev {
		return e.cached, nil
	}
	e.cached = New(kv.Value)
	e.modRev = kv.ModRevision
	return e.cached, nil
}
