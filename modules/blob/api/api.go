package api

import (
	"github.com/suigate/mint-gateway/modules/blob/api/httphandler"
	"github.com/suigate/mint-gateway/modules/blob/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(usecase)
}
