package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/mock"
	pagesnapslog "github.com/fwojciec/pagesnap/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("logs page count of the loaded snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SnapshotStore{
			LoadFn: func(ctx context.Context) (pagesnap.Snapshot, error) {
				return pagesnap.Snapshot{{URL: "https://a.example"}, {URL: "https://b.example"}}, nil
			},
		}

		snap, err := pagesnapslog.NewLoggingStore(inner, logger).Load(context.Background())

		require.NoError(t, err)
		assert.Len(t, snap, 2)
		output := buf.String()
		assert.Contains(t, output, "snapshot load")
		assert.Contains(t, output, "pages=2")
		assert.Contains(t, output, "found=true")
	})

	t.Run("logs missing snapshot as not found", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SnapshotStore{
			LoadFn: func(ctx context.Context) (pagesnap.Snapshot, error) {
				return nil, nil
			},
		}

		snap, err := pagesnapslog.NewLoggingStore(inner, logger).Load(context.Background())

		require.NoError(t, err)
		assert.Nil(t, snap)
		assert.Contains(t, buf.String(), "found=false")
	})
}

func TestLoggingStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var saved pagesnap.Snapshot
		inner := &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, s pagesnap.Snapshot) error {
				saved = s
				return errors.New("disk full")
			},
		}
		snap := pagesnap.Snapshot{{URL: "https://a.example", Content: "text"}}

		err := pagesnapslog.NewLoggingStore(inner, logger).Save(context.Background(), snap)

		require.Error(t, err)
		assert.Equal(t, snap, saved)
		output := buf.String()
		assert.Contains(t, output, "snapshot save")
		assert.Contains(t, output, "pages=1")
		assert.Contains(t, output, "err=\"disk full\"")
	})
}
