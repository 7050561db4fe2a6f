package api

import (
	"time"

	"github.com/suigate/mint-gateway/common"
	"github.com/suigate/mint-gateway/modules/mint/api/httphandler"
	"github.com/suigate/mint-gateway/modules/mint/usecase"
)

func NewHTTPHandler(network common.Network, usecase *usecase.Usecase, requestTimeout time.Duration) *httphandler.HttpHandler {
	return httphandler.New(network, usecase, requestTimeout)
}
