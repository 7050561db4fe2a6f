package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/modules/mint/datagateway"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
)

// Terminal mint outcomes. The HTTP layer maps each to a user-safe message
// and status; none of them is retryable for the same (event, address) pair
// except a sponsor failure.
var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrEventNotActive   = errors.New("event not active")
	ErrAlreadyMinted    = errors.New("already minted")
	ErrCapReached       = errors.New("cap reached")
	ErrInvalidSignature = errors.New("invalid signature")
)

// SponsorDelegator forwards an authorized mint to the transaction sponsor.
type SponsorDelegator interface {
	Delegate(ctx context.Context, req sponsorclient.DelegateRequest) (string, error)
}

// SignatureVerifier validates that a signature proves control of an address
// over the authorization message.
type SignatureVerifier func(signature, message []byte, claimedAddress string, publicKey []byte) bool

const DefaultLockTTL = time.Minute

type Usecase struct {
	events  datagateway.EventDataGateway
	ledger  datagateway.MintLedgerDataGateway
	sponsor SponsorDelegator
	verify  SignatureVerifier
	lockTTL time.Duration

	// now is swappable by tests
	now func() time.Time
}

func New(events datagateway.EventDataGateway, ledger datagateway.MintLedgerDataGateway, sponsor SponsorDelegator, verify SignatureVerifier, lockTTL time.Duration) *Usecase {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Usecase{
		events:  events,
		ledger:  ledger,
		sponsor: sponsor,
		verify:  verify,
		lockTTL: lockTTL,
		now:     time.Now,
	}
}
