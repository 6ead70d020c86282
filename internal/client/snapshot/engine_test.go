package snapshot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophjournal/internal/client/storage"
	"github.com/iudanet/gophjournal/internal/client/storage/boltdb"
	"github.com/iudanet/gophjournal/internal/models"
)

func newTestEngine(t *testing.T) (*Engine, storage.TxStore) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "snapshot_test.db")
	store, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(store, logger), store
}

func note(id, content, updatedAt string) *models.Note {
	return &models.Note{
		ID:        id,
		Content:   content,
		Stamp:     "000000000001000000aabbcc",
		CreatedAt: "2026-01-01T00:00:00.000Z",
		UpdatedAt: updatedAt,
	}
}

func TestEngine_Dump_IncludesTombstones(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.SaveNote(ctx, note("n1", "alive", "2026-01-02T00:00:00.000Z")))
	require.NoError(t, store.SaveNote(ctx, note("n2", "doomed", "2026-01-02T00:00:00.000Z")))
	require.NoError(t, store.DeleteNote(ctx, "n2", "000000000002000000aabbcc", "2026-01-03T00:00:00.000Z"))

	dump, err := engine.Dump(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.SchemaVersion, dump.SchemaVersion)
	require.Len(t, dump.Notes, 2)
}

func TestEngine_Merge_SchemaVersionGate(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	_, err := engine.Merge(ctx, &models.DatabaseDump{SchemaVersion: models.SchemaVersion + 1})
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestEngine_Merge_Idempotent(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	incoming := &models.DatabaseDump{
		SchemaVersion: models.SchemaVersion,
		Notes:         []*models.Note{note("n1", "hello", "2026-01-02T00:00:00.000Z")},
		Tasks: []*models.Task{{
			ID:        "t1",
			Content:   "task",
			Status:    models.TaskStatusIncomplete,
			CreatedAt: "2026-01-01T00:00:00.000Z",
			UpdatedAt: "2026-01-02T00:00:00.000Z",
		}},
	}

	first, err := engine.Merge(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Applied())
	assert.Equal(t, 0, first.Skipped)

	afterFirst, err := engine.Dump(ctx)
	require.NoError(t, err)

	// Повторное слияние того же дампа ничего не меняет
	second, err := engine.Merge(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Applied())
	assert.Equal(t, 2, second.Skipped)

	afterSecond, err := engine.Dump(ctx)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, afterSecond)
}

func TestEngine_Merge_LWWCommutative(t *testing.T) {
	older := note("n1", "foo", "2026-01-02T00:00:00.000Z")
	newer := note("n1", "bar", "2026-01-03T00:00:00.000Z")

	dumpA := &models.DatabaseDump{SchemaVersion: models.SchemaVersion, Notes: []*models.Note{older}}
	dumpB := &models.DatabaseDump{SchemaVersion: models.SchemaVersion, Notes: []*models.Note{newer}}

	// merge(a); merge(b) и merge(b); merge(a) сходятся к одному состоянию
	for _, order := range [][2]*models.DatabaseDump{{dumpA, dumpB}, {dumpB, dumpA}} {
		ctx := context.Background()
		engine, store := newTestEngine(t)

		_, err := engine.Merge(ctx, order[0])
		require.NoError(t, err)
		_, err = engine.Merge(ctx, order[1])
		require.NoError(t, err)

		got, err := store.GetNote(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "bar", got.Content)
		assert.Equal(t, "2026-01-03T00:00:00.000Z", got.UpdatedAt)
	}
}

func TestEngine_Merge_EqualTimestampKeepsLocal(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.SaveNote(ctx, note("n1", "local", "2026-01-02T00:00:00.000Z")))

	incoming := &models.DatabaseDump{
		SchemaVersion: models.SchemaVersion,
		Notes:         []*models.Note{note("n1", "remote", "2026-01-02T00:00:00.000Z")},
	}
	result, err := engine.Merge(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied())
	assert.Equal(t, 1, result.Skipped)

	got, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "local", got.Content)
}

func TestEngine_Merge_TombstonePropagation(t *testing.T) {
	ctx := context.Background()

	// Устройство A удаляет заметку и отдаёт дамп
	engineA, storeA := newTestEngine(t)
	require.NoError(t, storeA.SaveNote(ctx, note("n1", "bye", "2026-01-02T00:00:00.000Z")))
	require.NoError(t, storeA.DeleteNote(ctx, "n1", "000000000002000000aabbcc", "2026-01-03T00:00:00.000Z"))

	dumpA, err := engineA.Dump(ctx)
	require.NoError(t, err)

	// Свежее устройство B принимает дамп: tombstone вставляется, а не пропадает
	engineB, storeB := newTestEngine(t)
	_, err = engineB.Merge(ctx, dumpA)
	require.NoError(t, err)

	got, err := storeB.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	// Устаревшее эхо без tombstone не воскрешает запись
	stale := &models.DatabaseDump{
		SchemaVersion: models.SchemaVersion,
		Notes:         []*models.Note{note("n1", "bye", "2026-01-02T00:00:00.000Z")},
	}
	_, err = engineB.Merge(ctx, stale)
	require.NoError(t, err)

	got, err = storeB.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestEngine_Merge_RoundTripNoop(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.SaveNote(ctx, note("n1", "hello", "2026-01-02T00:00:00.000Z")))

	dump, err := engine.Dump(ctx)
	require.NoError(t, err)

	// merge(dump()) на неизмененном хранилище - no-op
	result, err := engine.Merge(ctx, dump)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied())

	got, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02T00:00:00.000Z", got.UpdatedAt)
}

func TestEngine_TwoDevicesConverge(t *testing.T) {
	ctx := context.Background()
	engineA, storeA := newTestEngine(t)
	engineB, storeB := newTestEngine(t)

	// Оба устройства правят одну заметку: A в t1, B позже в t2
	require.NoError(t, storeA.SaveNote(ctx, note("n1", "foo", "2026-01-02T00:00:00.000Z")))
	require.NoError(t, storeB.SaveNote(ctx, note("n1", "bar", "2026-01-05T00:00:00.000Z")))

	// B сливает дамп A, затем A сливает дамп B
	dumpA, err := engineA.Dump(ctx)
	require.NoError(t, err)
	_, err = engineB.Merge(ctx, dumpA)
	require.NoError(t, err)

	dumpB, err := engineB.Dump(ctx)
	require.NoError(t, err)
	_, err = engineA.Merge(ctx, dumpB)
	require.NoError(t, err)

	for _, store := range []storage.TxStore{storeA, storeB} {
		got, err := store.GetNote(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "bar", got.Content)
	}
}
