package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
)

type getEventRequest struct {
	Id string `params:"id"`
}

type eventImage struct {
	BlobId   string `json:"blobId"`
	MimeType string `json:"mimeType"`
}

type getEventResult struct {
	Id           string      `json:"id"`
	Active       bool        `json:"active"`
	Live         bool        `json:"live"`
	StartAt      time.Time   `json:"startAt"`
	EndAt        time.Time   `json:"endAt"`
	TotalCap     *int64      `json:"totalCap,omitempty"`
	CollectionId string      `json:"collectionId"`
	Image        *eventImage `json:"image,omitempty"`
}

type getEventResponse = HttpResponse[getEventResult]

// GetEvent exposes the event window and capacity, but never the move call
// template; that stays server-side.
func (h *HttpHandler) GetEvent(ctx *fiber.Ctx) (err error) {
	var req getEventRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.Id == "" {
		return errs.NewPublicError("'id' is required")
	}

	event, err := h.usecase.GetEvent(ctx.UserContext(), req.Id)
	if err != nil {
		return errors.Wrap(err, "error during GetEvent")
	}

	result := getEventResult{
		Id:           event.Id,
		Active:       event.Active,
		Live:         event.IsActiveAt(time.Now()),
		StartAt:      event.StartAt,
		EndAt:        event.EndAt,
		TotalCap:     event.TotalCap,
		CollectionId: event.CollectionId,
	}
	if event.Image != nil {
		result.Image = &eventImage{
			BlobId:   event.Image.BlobId,
			MimeType: event.Image.MimeType,
		}
	}

	resp := getEventResponse{
		Success: true,
		Data:    &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}
