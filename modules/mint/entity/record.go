package entity

import "time"

// MintRecord is the durable receipt of one successful mint. At most one
// record ever exists per (eventId, lowercased address) pair; records are
// never mutated or deleted.
type MintRecord struct {
	EventId    string
	Address    string // lowercased
	TxDigest   string
	RecordedAt time.Time
}
