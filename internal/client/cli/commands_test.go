package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophjournal/internal/models"
)

func TestRunAdd_Note(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})

	// Категория запрашивается интерактивно
	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "work", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"note", "meeting", "recap"}))

	notes, err := c.store.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "meeting recap", notes[0].Content)
	assert.Equal(t, "work", notes[0].Category)
	assert.NotEmpty(t, notes[0].Stamp)
}

func TestRunAdd_Task_InteractiveContent(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})

	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "buy milk", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"task"}))

	tasks, err := c.store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Content)
}

func TestRunAdd_UnknownKind(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{})

	err := c.runAdd(context.Background(), []string{"reminder", "text"})
	require.Error(t, err)
}

func TestRunDone_CompletesTask(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})
	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"task", "write report"}))
	tasks, err := c.store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, c.runDone(ctx, []string{tasks[0].ID}))

	got, err := c.store.GetTask(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusComplete, got.Status)
}

func TestRunEdit_Note(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})
	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"note", "draft"}))
	notes, err := c.store.ListNotes(ctx)
	require.NoError(t, err)

	require.NoError(t, c.runEdit(ctx, []string{notes[0].ID, "final", "version"}))

	got, err := c.store.GetNote(ctx, notes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "final version", got.Content)
}

func TestRunDelete_SoftDeletesAnyRecordType(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})
	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"note", "to delete"}))
	require.NoError(t, c.runAdd(ctx, []string{"task", "to delete too"}))

	notes, err := c.store.ListNotes(ctx)
	require.NoError(t, err)
	tasks, err := c.store.ListTasks(ctx)
	require.NoError(t, err)

	require.NoError(t, c.runDelete(ctx, []string{notes[0].ID}))
	require.NoError(t, c.runDelete(ctx, []string{tasks[0].ID}))

	// Записи стали tombstone: из списков пропали, но в базе остались
	active, err := c.store.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	deleted, err := c.store.GetNote(ctx, notes[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
}

func TestRunDelete_UnknownID(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{})

	err := c.runDelete(context.Background(), []string{"no-such-id"})
	require.Error(t, err)
}

func TestRunComment_AndGet(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})
	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"task", "ship release"}))
	tasks, err := c.store.ListTasks(ctx)
	require.NoError(t, err)

	require.NoError(t, c.runComment(ctx, []string{tasks[0].ID, "blocked", "on", "review"}))

	comments, err := c.store.ListComments(ctx, tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "blocked on review", comments[0].Content)

	// get находит задачу и печатает комментарии без ошибок
	require.NoError(t, c.runGet(ctx, []string{tasks[0].ID}))
}

func TestRunComment_OrphanRejected(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{})

	err := c.runComment(context.Background(), []string{"ghost-entry", "text"})
	require.Error(t, err)
}

func TestRunStatus_NotAuthenticated(t *testing.T) {
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})

	var printed []string
	mockIO.PrintlnFunc = func(a ...any) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				printed = append(printed, s)
			}
		}
	}

	require.NoError(t, c.runStatus(context.Background()))
	assert.Contains(t, printed, "Status: not authenticated")
}

func TestRunList_Empty(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{})

	require.NoError(t, c.runList(context.Background(), []string{"notes"}))
	require.NoError(t, c.runList(context.Background(), []string{"tasks"}))

	err := c.runList(context.Background(), []string{"everything"})
	require.Error(t, err)
}

func TestRunExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})
	mockIO.ReadInputFunc = func(prompt string) (string, error) {
		return "", nil
	}

	require.NoError(t, c.runAdd(ctx, []string{"note", "portable"}))
	require.NoError(t, c.runAdd(ctx, []string{"task", "portable too"}))

	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, c.runExport(ctx, []string{path}))

	// Импорт в чистую базу восстанавливает записи
	fresh, _ := newTestCli(t, "http://localhost:8080", Passphrases{})
	require.NoError(t, fresh.runImport(ctx, []string{path}))

	notes, err := fresh.store.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "portable", notes[0].Content)

	tasks, err := fresh.store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestRunExport_Stdout(t *testing.T) {
	ctx := context.Background()
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})

	var written []byte
	mockIO.WriteFunc = func(p []byte) (int, error) {
		written = append(written, p...)
		return len(p), nil
	}

	require.NoError(t, c.runExport(ctx, []string{"-"}))
	assert.Contains(t, string(written), "schema_version")
}

func TestPreview_TruncatesLongContent(t *testing.T) {
	long := ""
	for range 100 {
		long += "x"
	}

	assert.Equal(t, "short", preview("short"))
	assert.Len(t, []rune(preview(long)), contentPreviewLen+3)
}
