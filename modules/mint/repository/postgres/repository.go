package postgres

import (
	"github.com/suigate/mint-gateway/internal/postgres"
	"github.com/suigate/mint-gateway/modules/mint/datagateway"
)

// Repository implements the mint module's data gateways against Postgres.
type Repository struct {
	db postgres.DB
}

var (
	_ datagateway.MintLedgerDataGateway = (*Repository)(nil)
	_ datagateway.EventDataGateway      = (*Repository)(nil)
)

func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}
