package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/modules/mint/usecase"
	"github.com/suigate/mint-gateway/pkg/suisig"
)

type getMintCheckRequest struct {
	EventId string `query:"eventId"`
	Address string `query:"address"`
}

func (r getMintCheckRequest) Validate() error {
	var errList []error
	if r.EventId == "" {
		errList = append(errList, errors.New("'eventId' is required"))
	}
	if r.Address == "" {
		errList = append(errList, errors.New("'address' is required"))
	} else if !suisig.IsValidAddress(r.Address) {
		errList = append(errList, errors.New("'address' is not a valid address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getMintCheckResponse struct {
	Success       bool `json:"success"`
	AlreadyMinted bool `json:"alreadyMinted"`
}

func (h *HttpHandler) GetMintCheck(ctx *fiber.Ctx) (err error) {
	var req getMintCheckRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	minted, err := h.usecase.Check(ctx.UserContext(), req.EventId, req.Address)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAddress) {
			return errs.NewPublicError("invalid address")
		}
		return errors.Wrap(err, "error during Check")
	}

	resp := getMintCheckResponse{
		Success:       true,
		AlreadyMinted: minted,
	}
	return errors.WithStack(ctx.JSON(resp))
}
