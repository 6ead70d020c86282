package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime_LexicographicOrderMatchesChronological(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	moments := []time.Time{
		base,
		base.Add(5 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Hour),
		base.AddDate(0, 1, 0),
	}

	prev := ""
	for _, m := range moments {
		formatted := FormatTime(m)
		assert.Greater(t, formatted, prev)
		prev = formatted
	}
}

func TestFormatTime_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	local := time.Date(2025, 6, 1, 15, 0, 0, 0, loc)
	utc := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, FormatTime(utc), FormatTime(local))
}

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, TaskStatusIncomplete.Valid())
	assert.True(t, TaskStatusComplete.Valid())
	assert.True(t, TaskStatusCanceled.Valid())

	assert.False(t, TaskStatus("").Valid())
	assert.False(t, TaskStatus("done").Valid())
}

func TestNote_NewerThan(t *testing.T) {
	older := &Note{UpdatedAt: "2025-06-01T12:00:00.000Z"}
	newer := &Note{UpdatedAt: "2025-06-01T12:00:00.001Z"}

	assert.True(t, newer.NewerThan(older))
	assert.False(t, older.NewerThan(newer))
	// Равные метки не новее друг друга: при merge побеждает локальная
	assert.False(t, older.NewerThan(older))
}

func TestNote_CloneIsIndependent(t *testing.T) {
	orig := &Note{ID: "n1", Content: "original", UpdatedAt: Now()}
	clone := orig.Clone()
	clone.Content = "changed"

	assert.Equal(t, "original", orig.Content)
	assert.Equal(t, orig.ID, clone.ID)
}
