package api

// BackupResponse представляет ответ сервера с зашифрованным снапшотом
// Содержимое полностью непрозрачно для сервера: это base64 от
// nonce+ciphertext, полученного шифрованием сериализованного дампа
type BackupResponse struct {
	Data string `json:"data"` // base64 encoded ciphertext
}

// PutBackupRequest представляет запрос на загрузку нового снапшота
// Сервер перезаписывает предыдущий снапшот целиком (last-write-wins)
type PutBackupRequest struct {
	Data string `json:"data"` // base64 encoded ciphertext
}

// PutBackupResponse представляет ответ на успешную загрузку снапшота
type PutBackupResponse struct {
	OK bool `json:"ok"`
}
