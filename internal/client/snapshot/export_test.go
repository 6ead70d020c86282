package snapshot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophjournal/internal/models"
)

func TestEngine_ExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.SaveNote(ctx, note("n1", "hello", "2026-01-02T00:00:00.000Z")))
	require.NoError(t, store.SaveTask(ctx, &models.Task{
		ID:        "t1",
		Content:   "task",
		Status:    models.TaskStatusComplete,
		CreatedAt: "2026-01-01T00:00:00.000Z",
		UpdatedAt: "2026-01-02T00:00:00.000Z",
	}))

	data, err := engine.Export(ctx)
	require.NoError(t, err)

	// Экспорт - валидный JSON в формате дампа
	var dump models.DatabaseDump
	require.NoError(t, json.Unmarshal(data, &dump))
	assert.Equal(t, models.SchemaVersion, dump.SchemaVersion)
	assert.Len(t, dump.Notes, 1)
	assert.Len(t, dump.Tasks, 1)

	// Импорт в чистое хранилище восстанавливает все записи
	engine2, store2 := newTestEngine(t)
	result, err := engine2.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 0, result.Rejected)
	assert.Equal(t, 2, result.Merge.Applied())

	got, err := store2.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

func TestEngine_Import_MalformedJSON(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	_, err := engine.Import(ctx, []byte("{not json"))
	require.Error(t, err)

	// Хранилище не тронуто
	notes, err := store.AllNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestEngine_Import_SchemaVersionGate(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	_, err := engine.Import(ctx, []byte(`{"schema_version": 99, "notes": []}`))
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestEngine_Import_LegacyEntriesAlias(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	// Старый формат экспорта называл заметки "entries"
	legacy := `{
		"schema_version": 1,
		"entries": [
			{
				"id": "n1",
				"content": "from legacy export",
				"created_at": "2026-01-01T00:00:00.000Z",
				"updated_at": "2026-01-02T00:00:00.000Z"
			}
		]
	}`

	result, err := engine.Import(ctx, []byte(legacy))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)

	got, err := store.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "from legacy export", got.Content)
}

func TestEngine_Import_SkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	// Один битый элемент не валит весь импорт
	mixed := `{
		"schema_version": 1,
		"notes": [
			{"id": "", "content": "no id"},
			{
				"id": "good",
				"content": "valid",
				"created_at": "2026-01-01T00:00:00.000Z",
				"updated_at": "2026-01-02T00:00:00.000Z"
			}
		],
		"tasks": [
			{
				"id": "bad-status",
				"content": "x",
				"status": "someday",
				"created_at": "2026-01-01T00:00:00.000Z",
				"updated_at": "2026-01-02T00:00:00.000Z"
			}
		]
	}`

	result, err := engine.Import(ctx, []byte(mixed))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 2, result.Rejected)

	got, err := store.GetNote(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "valid", got.Content)
}
