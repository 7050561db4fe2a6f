package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/modules/mint/datagateway"
	"github.com/suigate/mint-gateway/modules/mint/entity"
)

// Repository is an in-memory mint data gateway, used for local runs and
// tests. Events are seeded at construction and read-only afterwards, like
// the real admin surface contract.
type Repository struct {
	mu       sync.Mutex
	records  map[string]entity.MintRecord
	counters map[string]int64
	locks    map[string]time.Time
	events   map[string]entity.MintEvent
}

var (
	_ datagateway.MintLedgerDataGateway = (*Repository)(nil)
	_ datagateway.EventDataGateway      = (*Repository)(nil)
)

func NewRepository(events ...entity.MintEvent) *Repository {
	r := &Repository{
		records:  make(map[string]entity.MintRecord),
		counters: make(map[string]int64),
		locks:    make(map[string]time.Time),
		events:   make(map[string]entity.MintEvent),
	}
	for _, event := range events {
		r.events[event.Id] = event
	}
	return r
}

func (r *Repository) AlreadyMinted(_ context.Context, eventId, address string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[datagateway.MintedKey(eventId, address)]
	return ok, nil
}

func (r *Repository) MintedCount(_ context.Context, eventId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[datagateway.CounterKey(eventId)], nil
}

func (r *Repository) Lock(_ context.Context, eventId, address string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks[datagateway.LockKey(eventId, address)] = time.Now().Add(ttl)
	return nil
}

func (r *Repository) Unlock(_ context.Context, eventId, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, datagateway.LockKey(eventId, address))
	return nil
}

func (r *Repository) Record(_ context.Context, record entity.MintRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := datagateway.MintedKey(record.EventId, record.Address)
	if _, ok := r.records[key]; ok {
		// write-once, keep the first receipt
		return nil
	}
	r.records[key] = record
	return nil
}

func (r *Repository) IncrementCounter(_ context.Context, eventId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[datagateway.CounterKey(eventId)]++
	return nil
}

func (r *Repository) GetEventById(_ context.Context, id string) (*entity.MintEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "event %q", id)
	}
	return &event, nil
}

// IsLocked reports whether a live in-progress marker exists for the pair.
// Exposed for tests.
func (r *Repository) IsLocked(eventId, address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.locks[datagateway.LockKey(eventId, address)]
	return ok && time.Now().Before(expiry)
}
