package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
)

type getMintCountRequest struct {
	EventId string `query:"eventId"`
}

func (r getMintCountRequest) Validate() error {
	if r.EventId == "" {
		return errs.NewPublicError("'eventId' is required")
	}
	return nil
}

type getMintCountResult struct {
	EventId  string `json:"eventId"`
	Count    int64  `json:"count"`
	TotalCap *int64 `json:"totalCap,omitempty"`
}

type getMintCountResponse = HttpResponse[getMintCountResult]

func (h *HttpHandler) GetMintCount(ctx *fiber.Ctx) (err error) {
	var req getMintCountRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	event, err := h.usecase.GetEvent(ctx.UserContext(), req.EventId)
	if err != nil {
		return errors.Wrap(err, "error during GetEvent")
	}
	count, err := h.usecase.MintedCount(ctx.UserContext(), req.EventId)
	if err != nil {
		return errors.Wrap(err, "error during MintedCount")
	}

	resp := getMintCountResponse{
		Success: true,
		Data: &getMintCountResult{
			EventId:  event.Id,
			Count:    count,
			TotalCap: event.TotalCap,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
