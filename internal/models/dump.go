package models

// SchemaVersion текущая версия схемы дампа
// Merge и import требуют точного совпадения версий: несовпадение -
// жесткая ошибка, частичная миграция не предпринимается
const SchemaVersion = 1

// DatabaseDump полный снапшот локального хранилища
// Единица обмена между локальной базой и удаленным blob-хранилищем,
// а также формат plaintext export/import. Содержит ВСЕ записи,
// включая tombstones - иначе удаления не реплицируются
type DatabaseDump struct {
	SchemaVersion int        `json:"schema_version"`
	Notes         []*Note    `json:"notes"`
	Tasks         []*Task    `json:"tasks"`
	Comments      []*Comment `json:"comments"`
}
