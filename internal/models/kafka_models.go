package models

import "time"

// IngestionCompletedEvent - событие о завершении обработки CSV-файла,
// отправляется в kafka после каждой загрузки
type IngestionCompletedEvent struct {
	UploadID   string    `json:"upload_id"`
	FileName   string    `json:"file_name"`
	Inserted   int       `json:"inserted"`
	Failed     int       `json:"failed"`
	OccurredAt time.Time `json:"occurred_at"`
}
