package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkSnapshotStore_Save measures saving a snapshot of a typical
// URL list, including generation rotation.
func BenchmarkSnapshotStore_Save(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	store := sqlite.NewSnapshotStore(db)
	snapshot := make(pagesnap.Snapshot, 50)
	for i := range snapshot {
		text := fmt.Sprintf("Answer number %d explains one of the frequently asked questions in detail.", i)
		snapshot[i] = pagesnap.PageResult{
			URL:     fmt.Sprintf("https://example.com/faq/%d", i),
			Content: text,
			Chunks:  []pagesnap.Chunk{{Text: text}},
		}
	}

	ctx := context.Background()
	for b.Loop() {
		if err := store.Save(ctx, snapshot); err != nil {
			b.Fatal(err)
		}
	}
}
