package datagateway

import (
	"context"

	"github.com/suigate/mint-gateway/modules/mint/entity"
)

// EventDataGateway reads mint event definitions. The gateway never writes
// events; the admin surface owns their lifecycle.
type EventDataGateway interface {
	// GetEventById returns the event. Returns errs.NotFound if no event
	// exists with the given id.
	GetEventById(ctx context.Context, id string) (*entity.MintEvent, error)
}
