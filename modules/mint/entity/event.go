package entity

import (
	"encoding/json"
	"time"
)

// MintEvent is a mintable campaign. Events are created and updated by the
// admin surface; the gateway only reads them.
type MintEvent struct {
	Id           string
	Active       bool
	StartAt      time.Time
	EndAt        time.Time
	TotalCap     *int64 // nil = unlimited
	CollectionId string
	MoveCall     MoveCallSpec
	Image        *ImageRef
}

// MoveCallSpec is the opaque transaction template forwarded to the sponsor.
// The gateway never interprets it beyond serialization.
type MoveCallSpec struct {
	Target    string          `json:"target"`
	Arguments json.RawMessage `json:"arguments"`
	GasBudget uint64          `json:"gasBudget"`
}

// ImageRef points at the event artwork by content id; raw bytes never travel
// through the mint pipeline.
type ImageRef struct {
	BlobId   string `json:"blobId"`
	MimeType string `json:"mimeType"`
}

// IsActiveAt reports whether the event permits minting at the given instant.
// The window is inclusive on both ends.
func (e MintEvent) IsActiveAt(now time.Time) bool {
	return e.Active && !now.Before(e.StartAt) && !now.After(e.EndAt)
}
