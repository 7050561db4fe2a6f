package datagateway

import (
	"context"
	"time"

	"github.com/suigate/mint-gateway/modules/mint/entity"
)

// MintLedgerDataGateway is the idempotency and capacity ledger backing the
// mint pipeline. All operations key by (eventId, address) with the address
// case-normalized to lowercase by the caller.
//
// The ledger is a plain key-value store: AlreadyMinted-then-Record is NOT
// atomic, and Lock is a best-effort marker with a TTL, not a mutual
// exclusion primitive. The duplicate window this leaves open is an accepted
// trade-off; real scarcity is enforced on-chain.
type MintLedgerDataGateway interface {
	// AlreadyMinted reports whether a MintRecord exists for the pair.
	AlreadyMinted(ctx context.Context, eventId, address string) (bool, error)

	// MintedCount returns the current confirmed-mint counter for the event.
	MintedCount(ctx context.Context, eventId string) (int64, error)

	// Lock writes an in-progress marker expiring after ttl. Best effort.
	Lock(ctx context.Context, eventId, address string, ttl time.Duration) error

	// Unlock removes the in-progress marker so a retried request is not
	// blocked after a sponsor failure.
	Unlock(ctx context.Context, eventId, address string) error

	// Record writes the MintRecord. Re-writing with the same digest is
	// harmless, but callers must invoke it only once per successful
	// delegation.
	Record(ctx context.Context, record entity.MintRecord) error

	// IncrementCounter increments the event's confirmed-mint counter by one.
	IncrementCounter(ctx context.Context, eventId string) error
}
