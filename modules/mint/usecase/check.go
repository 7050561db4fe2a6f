package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/suigate/mint-gateway/modules/mint/entity"
	"github.com/suigate/mint-gateway/pkg/suisig"
)

// Check reports whether the address already minted on the event.
func (u *Usecase) Check(ctx context.Context, eventId, address string) (bool, error) {
	if !suisig.IsValidAddress(address) {
		return false, errors.WithStack(ErrInvalidAddress)
	}
	minted, err := u.ledger.AlreadyMinted(ctx, eventId, strings.ToLower(address))
	if err != nil {
		return false, errors.Wrap(err, "ledger read failed")
	}
	return minted, nil
}

// MintedCount returns the recorded mint counter for the event.
func (u *Usecase) MintedCount(ctx context.Context, eventId string) (int64, error) {
	count, err := u.ledger.MintedCount(ctx, eventId)
	if err != nil {
		return 0, errors.Wrap(err, "ledger read failed")
	}
	return count, nil
}

// GetEvent returns the event configuration by id.
func (u *Usecase) GetEvent(ctx context.Context, eventId string) (*entity.MintEvent, error) {
	event, err := u.events.GetEventById(ctx, eventId)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return event, nil
}
