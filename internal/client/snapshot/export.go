package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/gophjournal/internal/models"
)

// ImportResult reports per-record outcome of an import
type ImportResult struct {
	Accepted int          // records that passed validation and went into the merge
	Rejected int          // malformed records skipped with a warning
	Merge    *MergeResult // what the merge actually changed
}

// importDocument is the tolerant import schema.
// Старые экспорты называли коллекцию заметок "entries" - принимаем оба
// ключа. Каждая запись разбирается и проверяется отдельно, поэтому один
// битый элемент не валит весь импорт.
type importDocument struct {
	SchemaVersion int               `json:"schema_version"`
	Notes         []json.RawMessage `json:"notes"`
	Entries       []json.RawMessage `json:"entries"` // legacy alias for notes
	Tasks         []json.RawMessage `json:"tasks"`
	Comments      []json.RawMessage `json:"comments"`
}

// Export serializes the full local database as pretty-printed JSON.
// Формат совпадает с DatabaseDump и не шифруется: это локальный
// человекочитаемый бэкап, скачиваемый пользователем.
func (e *Engine) Export(ctx context.Context) ([]byte, error) {
	dump, err := e.Dump(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dump: %w", err)
	}

	return data, nil
}

// Import parses a previously exported JSON document and merges it into
// the local store. Malformed JSON fails before anything is written;
// individual invalid records are counted and skipped, valid ones are
// merged with the usual last-write-wins rules.
func (e *Engine) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	if doc.SchemaVersion != models.SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrSchemaVersion, doc.SchemaVersion, models.SchemaVersion)
	}

	result := &ImportResult{}
	dump := &models.DatabaseDump{SchemaVersion: models.SchemaVersion}

	// Заметки: основной ключ плюс legacy alias
	rawNotes := make([]json.RawMessage, 0, len(doc.Notes)+len(doc.Entries))
	rawNotes = append(rawNotes, doc.Notes...)
	rawNotes = append(rawNotes, doc.Entries...)

	for _, raw := range rawNotes {
		note := &models.Note{}
		if err := json.Unmarshal(raw, note); err != nil || !validNote(note) {
			e.logger.Warn("skipping invalid note in import")
			result.Rejected++
			continue
		}
		dump.Notes = append(dump.Notes, note)
		result.Accepted++
	}

	for _, raw := range doc.Tasks {
		task := &models.Task{}
		if err := json.Unmarshal(raw, task); err != nil || !validTask(task) {
			e.logger.Warn("skipping invalid task in import")
			result.Rejected++
			continue
		}
		dump.Tasks = append(dump.Tasks, task)
		result.Accepted++
	}

	for _, raw := range doc.Comments {
		comment := &models.Comment{}
		if err := json.Unmarshal(raw, comment); err != nil || !validComment(comment) {
			e.logger.Warn("skipping invalid comment in import")
			result.Rejected++
			continue
		}
		dump.Comments = append(dump.Comments, comment)
		result.Accepted++
	}

	merge, err := e.Merge(ctx, dump)
	if err != nil {
		return nil, err
	}
	result.Merge = merge

	return result, nil
}

func validNote(n *models.Note) bool {
	return n.ID != "" && n.CreatedAt != "" && n.UpdatedAt != ""
}

func validTask(t *models.Task) bool {
	return t.ID != "" && t.CreatedAt != "" && t.UpdatedAt != "" && t.Status.Valid()
}

func validComment(c *models.Comment) bool {
	return c.ID != "" && c.EntryID != "" && c.CreatedAt != "" && c.UpdatedAt != ""
}
