package mock

import (
	"context"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of pagesnap.SnapshotStore.
type SnapshotStore struct {
	LoadFn func(ctx context.Context) (pagesnap.Snapshot, error)
	SaveFn func(ctx context.Context, s pagesnap.Snapshot) error
}

func (s *SnapshotStore) Load(ctx context.Context) (pagesnap.Snapshot, error) {
	return s.LoadFn(ctx)
}

func (s *SnapshotStore) Save(ctx context.Context, snap pagesnap.Snapshot) error {
	return s.SaveFn(ctx, snap)
}
