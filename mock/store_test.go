package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ pagesnap.SnapshotStore = &mock.SnapshotStore{}
}

func TestSnapshotStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveFn", func(t *testing.T) {
		t.Parallel()

		var calledWith pagesnap.Snapshot
		s := &mock.SnapshotStore{
			SaveFn: func(_ context.Context, snap pagesnap.Snapshot) error {
				calledWith = snap
				return nil
			},
		}

		snap := pagesnap.Snapshot{{URL: "https://example.com", Content: "Test content"}}

		err := s.Save(context.Background(), snap)

		require.NoError(t, err)
		assert.Equal(t, snap, calledWith)
	})
}
