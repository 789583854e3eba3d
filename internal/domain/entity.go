package domain

import (
	"time"
)

// TokenInfo represents cached metadata for a traded token
type TokenInfo struct {
	Address      string    `gorm:"primaryKey" json:"address"`
	Symbol       string    `json:"symbol"`
	IconPath     string    `json:"icon_path"`
	LastSyncedAt time.Time `json:"last_synced_at"` // Last icon sync time
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EventRecord is one row of the diagnostic event journal. The journal is
// append-only and write-only: state is always rebuilt by replaying the
// chain, never from these rows.
type EventRecord struct {
	Seq       uint64 `gorm:"primaryKey;autoIncrement" json:"seq"`
	Stream    string `gorm:"index" json:"stream"` // "Order", "Cancel", "Trade"
	EventID   uint64 `gorm:"index" json:"event_id"`
	Payload   string `json:"payload"` // JSON-encoded record
	CreatedAt time.Time
}
