package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/suigate/mint-gateway/modules/mint/datagateway"
	"github.com/suigate/mint-gateway/modules/mint/entity"
)

// recordValue is the stored form of a MintRecord value.
type recordValue struct {
	TxDigest   string    `json:"txDigest"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (r *Repository) AlreadyMinted(ctx context.Context, eventId, address string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mint_ledger WHERE key = $1)`,
		datagateway.MintedKey(eventId, address),
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to query mint record")
	}
	return exists, nil
}

func (r *Repository) MintedCount(ctx context.Context, eventId string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT counter FROM mint_ledger WHERE key = $1`,
		datagateway.CounterKey(eventId),
	).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to query mint counter")
	}
	return count, nil
}

func (r *Repository) Lock(ctx context.Context, eventId, address string, ttl time.Duration) error {
	// Overwriting a live lock just refreshes its expiry; the lock is a
	// best-effort marker, not a mutex.
	_, err := r.db.Exec(ctx,
		`INSERT INTO mint_ledger (key, value, expires_at)
		 VALUES ($1, '', $2)
		 ON CONFLICT (key) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		datagateway.LockKey(eventId, address), time.Now().Add(ttl),
	)
	return errors.Wrap(err, "failed to write in-progress lock")
}

func (r *Repository) Unlock(ctx context.Context, eventId, address string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM mint_ledger WHERE key = $1`,
		datagateway.LockKey(eventId, address),
	)
	return errors.Wrap(err, "failed to remove in-progress lock")
}

func (r *Repository) Record(ctx context.Context, record entity.MintRecord) error {
	value, err := json.Marshal(recordValue{
		TxDigest:   record.TxDigest,
		RecordedAt: record.RecordedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal mint record")
	}
	// DO NOTHING keeps the first receipt: records are write-once.
	_, err = r.db.Exec(ctx,
		`INSERT INTO mint_ledger (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO NOTHING`,
		datagateway.MintedKey(record.EventId, record.Address), string(value),
	)
	return errors.Wrap(err, "failed to write mint record")
}

func (r *Repository) IncrementCounter(ctx context.Context, eventId string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO mint_ledger (key, counter)
		 VALUES ($1, 1)
		 ON CONFLICT (key) DO UPDATE SET counter = mint_ledger.counter + 1`,
		datagateway.CounterKey(eventId),
	)
	return errors.Wrap(err, "failed to increment mint counter")
}
