package usecase

import (
	"context"

	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
)

// bestEffort runs a ledger side effect whose failure must not fail the mint.
// Errors are logged with the operation name and dropped.
func (u *Usecase) bestEffort(ctx context.Context, op string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		logger.WarnContext(ctx, "best-effort ledger operation failed", slogx.Error(err), slogx.String("op", op))
	}
}
