package models

import "time"

// TimeLayout формат временных меток записей журнала
// Фиксированная ширина и UTC гарантируют, что лексикографическое
// сравнение строк совпадает с хронологическим порядком - на этом
// свойстве построено разрешение конфликтов при слиянии
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Now возвращает текущее время в формате TimeLayout
func Now() string {
	return FormatTime(time.Now())
}

// FormatTime форматирует время в TimeLayout (всегда UTC)
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// TaskStatus статус задачи
type TaskStatus string

const (
	TaskStatusIncomplete TaskStatus = "incomplete"
	TaskStatusComplete   TaskStatus = "complete"
	TaskStatusCanceled   TaskStatus = "canceled"
)

// Valid проверяет, что статус принадлежит допустимому множеству
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusIncomplete, TaskStatusComplete, TaskStatusCanceled:
		return true
	}
	return false
}

// Note представляет заметку журнала
// Записи никогда не удаляются физически: удаление - это мутация,
// устанавливающая Deleted и обновляющая UpdatedAt, чтобы tombstone
// реплицировался на другие устройства
type Note struct {
	ID        string `json:"id"`                 // ID уникальный идентификатор (UUID), неизменяемый
	Content   string `json:"content"`            // Content текст заметки (непустой)
	Category  string `json:"category,omitempty"` // Category свободная классификация (не участвует в merge)
	Stamp     string `json:"stamp,omitempty"`    // Stamp eventstamp последней локальной правки
	CreatedAt string `json:"created_at"`         // CreatedAt время создания (TimeLayout)
	UpdatedAt string `json:"updated_at"`         // UpdatedAt время последней мутации (TimeLayout)
	Deleted   bool   `json:"is_deleted"`         // Deleted флаг soft delete
}

// NewerThan возвращает true, если запись новее other
// Сравнение строковое: TimeLayout лексикографически сортируем
func (n *Note) NewerThan(other *Note) bool {
	return n.UpdatedAt > other.UpdatedAt
}

// Clone создает копию заметки
func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// Task представляет задачу журнала
type Task struct {
	ID        string     `json:"id"`              // ID уникальный идентификатор (UUID), неизменяемый
	Content   string     `json:"content"`         // Content текст задачи (непустой)
	Status    TaskStatus `json:"status"`          // Status статус: incomplete, complete, canceled
	Stamp     string     `json:"stamp,omitempty"` // Stamp eventstamp последней локальной правки
	CreatedAt string     `json:"created_at"`      // CreatedAt время создания (TimeLayout)
	UpdatedAt string     `json:"updated_at"`      // UpdatedAt время последней мутации (TimeLayout)
	Deleted   bool       `json:"is_deleted"`      // Deleted флаг soft delete
}

// NewerThan возвращает true, если запись новее other
func (t *Task) NewerThan(other *Task) bool {
	return t.UpdatedAt > other.UpdatedAt
}

// Clone создает копию задачи
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// Comment представляет комментарий к записи журнала
// ID комментария - это eventstamp: строковая сортировка по ID
// дает порядок создания даже для комментариев с разных устройств
type Comment struct {
	ID        string `json:"id"`         // ID eventstamp комментария
	EntryID   string `json:"entry_id"`   // EntryID идентификатор заметки или задачи
	Content   string `json:"content"`    // Content текст комментария (непустой)
	CreatedAt string `json:"created_at"` // CreatedAt время создания (TimeLayout)
	UpdatedAt string `json:"updated_at"` // UpdatedAt время последней мутации (TimeLayout)
	Deleted   bool   `json:"is_deleted"` // Deleted флаг soft delete
}

// NewerThan возвращает true, если запись новее other
func (c *Comment) NewerThan(other *Comment) bool {
	return c.UpdatedAt > other.UpdatedAt
}

// Clone создает копию комментария
func (c *Comment) Clone() *Comment {
	cc := *c
	return &cc
}
