package blob

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/suigate/mint-gateway/internal/config"
	blobapi "github.com/suigate/mint-gateway/modules/blob/api"
	"github.com/suigate/mint-gateway/modules/blob/mirror"
	blobusecase "github.com/suigate/mint-gateway/modules/blob/usecase"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

// Module is the blob ingestion and serving surface, mounted on the shared
// HTTP server.
type Module struct{}

func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	walrusClient := do.MustInvoke[*walrusclient.Client](injector)

	var blobMirror blobusecase.Mirror
	if conf.Blob.Mirror.Enabled {
		s3Mirror, err := mirror.New(ctx, conf.Blob.Mirror)
		if err != nil {
			return nil, errors.Wrap(err, "can't create blob mirror")
		}
		blobMirror = s3Mirror
	}

	uc := blobusecase.New(walrusClient, blobMirror, conf.Blob.DefaultRetentionEpochs)

	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := blobapi.NewHTTPHandler(uc)
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount blob API")
	}
	logger.InfoContext(ctx, "Mounted blob HTTP handler")

	return &Module{}, nil
}
