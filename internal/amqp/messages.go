package amqp

import (
	"encoding/json"
	"time"
)

// ImportCompletedMessage tells the export worker that a statement import
// landed in SQLite. It carries only the import ID and row counts; the worker
// reads the transactions back from the database.
type ImportCompletedMessage struct {
	ImportID  int64     `json:"import_id"`
	Rows      int       `json:"rows"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

func NewImportCompletedMessage(importID int64, rows, skipped int) *ImportCompletedMessage {
	return &ImportCompletedMessage{
		ImportID:  importID,
		Rows:      rows,
		Skipped:   skipped,
		Timestamp: time.Now(),
	}
}

func (m *ImportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ImportCompletedMessageFromJSON(data []byte) (*ImportCompletedMessage, error) {
	var msg ImportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
