package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
)

// blobCacheControl allows aggressive caching: blob ids are content-derived,
// so the bytes behind an id never change.
const blobCacheControl = "public, max-age=31536000, immutable"

func (h *HttpHandler) GetBlob(ctx *fiber.Ctx) (err error) {
	blobId := ctx.Params("blobId")
	if blobId == "" {
		return errs.NewPublicError("'blobId' is required")
	}

	data, contentType, err := h.usecase.Fetch(ctx.UserContext(), blobId)
	if err != nil {
		return errors.Wrap(err, "error during Fetch")
	}

	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderCacheControl, blobCacheControl)
	return errors.WithStack(ctx.Send(data))
}
