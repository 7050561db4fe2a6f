package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/modules/mint/entity"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
	"github.com/suigate/mint-gateway/pkg/suisig"
	"golang.org/x/sync/errgroup"
)

type MintRequest struct {
	EventId   string
	Address   string
	Signature []byte
	Message   []byte
	PublicKey []byte // optional, for bare-signature wire shapes
}

// Mint runs the authorization pipeline end to end: validate, verify the
// signature, take the best-effort in-progress lock, delegate to the sponsor
// and record the receipt. It returns the sponsor's transaction digest.
//
// The check-then-act sequence here is not atomic: two
// near-simultaneous requests for the same address can both pass the
// AlreadyMinted guard before either records. The lock narrows that window;
// the on-chain supply logic is the actual scarcity boundary.
func (u *Usecase) Mint(ctx context.Context, req MintRequest) (txDigest string, err error) {
	if !suisig.IsValidAddress(req.Address) {
		return "", errors.WithStack(ErrInvalidAddress)
	}
	address := strings.ToLower(req.Address)
	ctx = logger.WithContext(ctx, slogx.String("event_id", req.EventId), slogx.String("address", address))

	event, err := u.events.GetEventById(ctx, req.EventId)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !event.IsActiveAt(u.now()) {
		return "", errors.WithStack(ErrEventNotActive)
	}

	minted, err := u.ledger.AlreadyMinted(ctx, req.EventId, address)
	if err != nil {
		return "", errors.Wrap(err, "ledger read failed")
	}
	if minted {
		return "", errors.WithStack(ErrAlreadyMinted)
	}

	if event.TotalCap != nil {
		count, err := u.ledger.MintedCount(ctx, req.EventId)
		if err != nil {
			return "", errors.Wrap(err, "ledger read failed")
		}
		if count >= *event.TotalCap {
			return "", errors.WithStack(ErrCapReached)
		}
	}

	if !u.verify(req.Signature, req.Message, req.Address, req.PublicKey) {
		return "", errors.WithStack(ErrInvalidSignature)
	}

	if err := u.ledger.Lock(ctx, req.EventId, address, u.lockTTL); err != nil {
		return "", errors.Wrap(err, "ledger lock failed")
	}

	delegateReq := sponsorclient.DelegateRequest{
		Target:       event.MoveCall.Target,
		Arguments:    event.MoveCall.Arguments,
		GasBudget:    event.MoveCall.GasBudget,
		Recipient:    address,
		CollectionId: event.CollectionId,
	}
	if event.Image != nil {
		delegateReq.ImageBlobId = event.Image.BlobId
		delegateReq.ImageMimeType = event.Image.MimeType
	}

	txDigest, err = u.sponsor.Delegate(ctx, delegateReq)
	if err != nil {
		// Release the lock so a resubmission is not blocked for the TTL.
		u.bestEffort(ctx, "unlock", func(ctx context.Context) error {
			return u.ledger.Unlock(ctx, req.EventId, address)
		})
		return "", errors.WithStack(err)
	}

	// The mint already happened on-chain; bookkeeping failures from here on
	// are logged and swallowed, never surfaced as a mint failure.
	record := entity.MintRecord{
		EventId:    req.EventId,
		Address:    address,
		TxDigest:   txDigest,
		RecordedAt: u.now(),
	}
	var g errgroup.Group
	g.Go(func() error {
		u.bestEffort(ctx, "record", func(ctx context.Context) error {
			return u.ledger.Record(ctx, record)
		})
		return nil
	})
	g.Go(func() error {
		u.bestEffort(ctx, "increment_counter", func(ctx context.Context) error {
			return u.ledger.IncrementCounter(ctx, req.EventId)
		})
		return nil
	})
	_ = g.Wait()
	u.bestEffort(ctx, "unlock", func(ctx context.Context) error {
		return u.ledger.Unlock(ctx, req.EventId, address)
	})

	logger.InfoContext(ctx, "mint succeeded", slogx.String("tx_digest", txDigest))
	return txDigest, nil
}
