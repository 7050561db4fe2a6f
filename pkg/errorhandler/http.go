package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

// NewHTTPErrorHandler maps errors escaping the handlers to the response
// envelope. Every branch produces {success:false, error:"..."} with a
// user-safe message; raw internals only reach the logs.
func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(map[string]any{
				"success": false,
				"error":   e.Message(),
			}))
		}
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(ctx.Status(http.StatusNotFound).JSON(map[string]any{
				"success": false,
				"error":   "not found",
			}))
		}
		if errors.Is(err, sponsorclient.ErrSponsorTimeout) || errors.Is(err, sponsorclient.ErrSponsorUpstream) {
			logger.ErrorContext(ctx.UserContext(), "Sponsor delegation failed", err,
				slogx.String("event", "sponsor_error"),
			)
			return errors.WithStack(ctx.Status(http.StatusBadGateway).JSON(map[string]any{
				"success": false,
				"error":   publicMessage(err, "sponsor delegation failed"),
			}))
		}
		if errors.Is(err, walrusclient.ErrUnavailable) || errors.Is(err, walrusclient.ErrUpstream) {
			logger.ErrorContext(ctx.UserContext(), "Blob storage upstream failed", err,
				slogx.String("event", "walrus_error"),
			)
			return errors.WithStack(ctx.Status(http.StatusBadGateway).JSON(map[string]any{
				"success": false,
				"error":   "blob storage unavailable",
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(map[string]any{
				"success": false,
				"error":   e.Message,
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"success": false,
			"error":   "Internal Server Error",
		}))
	}
}

// publicMessage surfaces the sponsor error text for diagnostics. Upstream
// bodies are already truncated where the sentinel is wrapped, so the chain
// is safe to return.
func publicMessage(err error, fallback string) string {
	if errors.Is(err, sponsorclient.ErrSponsorTimeout) || errors.Is(err, sponsorclient.ErrSponsorUpstream) {
		return err.Error()
	}
	return fallback
}
