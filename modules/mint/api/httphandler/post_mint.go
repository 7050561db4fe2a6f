package httphandler

import (
	"context"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/modules/mint/usecase"
	"github.com/suigate/mint-gateway/pkg/suisig"
)

type postMintRequest struct {
	EventId     string `json:"eventId"`
	Address     string `json:"address"`
	Signature   string `json:"signature"`
	Bytes       string `json:"bytes"`
	PublicKey   string `json:"publicKey"`
	AuthMessage string `json:"authMessage"`
}

func (r postMintRequest) Validate() error {
	var errList []error
	if r.EventId == "" {
		errList = append(errList, errors.New("'eventId' is required"))
	}
	if r.Address == "" {
		errList = append(errList, errors.New("'address' is required"))
	} else if !suisig.IsValidAddress(r.Address) {
		errList = append(errList, errors.New("'address' is not a valid address"))
	}
	if r.Signature == "" {
		errList = append(errList, errors.New("'signature' is required"))
	}
	if r.Bytes == "" && r.AuthMessage == "" {
		errList = append(errList, errors.New("one of 'bytes' or 'authMessage' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// message returns the signed message bytes: the base64 payload when the
// client sent one, otherwise the plain-text authorization message.
func (r postMintRequest) message() ([]byte, error) {
	if r.Bytes != "" {
		decoded, err := base64.StdEncoding.DecodeString(r.Bytes)
		if err != nil {
			return nil, errs.NewPublicError("'bytes' is not valid base64")
		}
		return decoded, nil
	}
	return []byte(r.AuthMessage), nil
}

type postMintResult struct {
	TxDigest string `json:"txDigest"`
}

type postMintResponse = HttpResponse[postMintResult]

func (h *HttpHandler) PostMint(ctx *fiber.Ctx) (err error) {
	var req postMintRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.NewPublicError("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		return errs.NewPublicError("'signature' is not valid base64")
	}
	message, err := req.message()
	if err != nil {
		return errors.WithStack(err)
	}
	var publicKey []byte
	if req.PublicKey != "" {
		publicKey, err = base64.StdEncoding.DecodeString(req.PublicKey)
		if err != nil {
			return errs.NewPublicError("'publicKey' is not valid base64")
		}
	}

	userCtx, cancel := context.WithTimeout(ctx.UserContext(), h.requestTimeout)
	defer cancel()

	txDigest, err := h.usecase.Mint(userCtx, usecase.MintRequest{
		EventId:   req.EventId,
		Address:   req.Address,
		Signature: signature,
		Message:   message,
		PublicKey: publicKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidAddress):
			return errs.NewPublicError("invalid address")
		case errors.Is(err, usecase.ErrEventNotActive):
			return errs.NewPublicError("mint event is not active")
		case errors.Is(err, usecase.ErrAlreadyMinted):
			return errs.NewPublicErrorWithCode("address already minted on this event", "ALREADY_MINTED")
		case errors.Is(err, usecase.ErrCapReached):
			return errs.NewPublicErrorWithCode("mint event is sold out", "CAP_REACHED")
		case errors.Is(err, usecase.ErrInvalidSignature):
			return errs.NewPublicError("signature verification failed")
		default:
			return errors.Wrap(err, "error during Mint")
		}
	}

	resp := postMintResponse{
		Success: true,
		Data:    &postMintResult{TxDigest: txDigest},
	}
	return errors.WithStack(ctx.JSON(resp))
}
