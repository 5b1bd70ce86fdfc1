package catalog

import (
	"context"
	"encoding/binary"
	"os"
	"strings"
	"testing"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// TestEtcdSource is an integration test against a real etcd cluster. It
// requires one running:
//
//	TAPCPD_TEST_ETCD=http://localhost:2379 go test ./pkg/catalog/...
func TestEtcdSource(t *testing.T) {
	addr := os.Getenv("TAPCPD_TEST_ETCD")
	if addr == "" {
		t.Skip("set TAPCPD_TEST_ETCD=http://localhost:2379 to run etcd integration tests")
	}

	client, err := clientv3.New(clientv3.Config{Endpoints: strings.Split(addr, ",")})
	if err != nil {
		t.Fatalf("clientv3.New: %v", err)
	}
	defer client.Close()

	const key = "/tapcpd/test/catalog"
	ctx := context.Background()
	t.Cleanup(func() { client.Delete(ctx, key) })

	entry := append([]byte("A\x00"), make([]byte, 9)...)
	binary.BigEndian.PutUint32(entry[2:6], 0x100)
	binary.BigEndian.PutUint32(entry[6:10], 0x20)
	entry[10] = 5
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(entry)))
	blob := append(lenPrefix[:], entry...)

	if _, err := client.Put(ctx, key, string(blob)); err != nil {
		t.Fatalf("put: %v", err)
	}

	src := NewEtcdSource(client, key)
	cat, err := src.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	dev, ok := cat.Lookup("A")
	if !ok || dev.Offset != 0x100 || dev.Length != 0x20 || dev.Type != 5 {
		t.Errorf("Lookup(A) = (%+v, %v)", dev, ok)
	}

	cachedBeforePut := src.modRev
	if _, err := src.Catalog(ctx); err != nil {
		t.Fatalf("Catalog (cached): %v", err)
	}
	if src.modRev != cachedBeforePut {
		t.Errorf("modRev changed without a write: %d -> %d", cachedBeforePut, src.modRev)
	}

	// Overwrite with a second device and confirm the cache invalidates on
	// the mod-revision bump.
	entry2 := append([]byte("B\x00"), make([]byte, 9)...)
	binary.BigEndian.PutUint32(entry2[2:6], 0x200)
	binary.BigEndian.PutUint32(entry2[6:10], 0x10)
	entry2[10] = 6
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(entry2)))
	blob2 := append(lenPrefix[:], entry2...)
	if _, err := client.Put(ctx, key, string(blob2)); err != nil {
		t.Fatalf("put (update): %v", err)
	}

	cat2, err := src.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog (after update): %v", err)
	}
	if _, ok := cat2.Lookup("A"); ok {
		t.Error("stale cached catalog still contains device A after etcd update")
	}
	if _, ok := cat2.Lookup("B"); !ok {
		t.Error("expected device B after etcd update")
	}
}
