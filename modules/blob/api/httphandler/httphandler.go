package httphandler

import (
	"github.com/suigate/mint-gateway/modules/blob/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

type HttpResponse[T any] struct {
	Success bool    `json:"success"`
	Error   *string `json:"error,omitempty"`
	Data    *T      `json:"data,omitempty"`
}
