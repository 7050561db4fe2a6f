package httphandler

import (
	"time"

	"github.com/suigate/mint-gateway/common"
	"github.com/suigate/mint-gateway/modules/mint/usecase"
)

// DefaultRequestTimeout bounds one mint request end to end. It must exceed
// the sponsor deadline with visible margin and stay below any platform hard
// execution limit, so a sponsor timeout resolves to a clean error response.
const DefaultRequestTimeout = 55 * time.Second

type HttpHandler struct {
	usecase        *usecase.Usecase
	network        common.Network
	requestTimeout time.Duration
}

func New(network common.Network, usecase *usecase.Usecase, requestTimeout time.Duration) *HttpHandler {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &HttpHandler{
		usecase:        usecase,
		network:        network,
		requestTimeout: requestTimeout,
	}
}

type HttpResponse[T any] struct {
	Success bool    `json:"success"`
	Error   *string `json:"error,omitempty"`
	Data    *T      `json:"data,omitempty"`
}
