package mint

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/internal/config"
	"github.com/suigate/mint-gateway/internal/postgres"
	mintapi "github.com/suigate/mint-gateway/modules/mint/api"
	mintdatagateway "github.com/suigate/mint-gateway/modules/mint/datagateway"
	mintmemory "github.com/suigate/mint-gateway/modules/mint/repository/memory"
	mintpostgres "github.com/suigate/mint-gateway/modules/mint/repository/postgres"
	mintusecase "github.com/suigate/mint-gateway/modules/mint/usecase"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
	"github.com/suigate/mint-gateway/pkg/suisig"
)

// Module is the mint authorization pipeline, mounted on the shared HTTP
// server. It owns its database pool and closes it on shutdown.
type Module struct {
	cleanupFuncs []func(context.Context) error
}

var _ do.ShutdownerWithError = (*Module)(nil)

func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	sponsorClient := do.MustInvoke[*sponsorclient.Client](injector)

	var (
		eventDg  mintdatagateway.EventDataGateway
		ledgerDg mintdatagateway.MintLedgerDataGateway
	)
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(conf.Mint.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Mint.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for mint module")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		repo := mintpostgres.NewRepository(pg)
		eventDg = repo
		ledgerDg = repo
	case "memory":
		repo := mintmemory.NewRepository()
		eventDg = repo
		ledgerDg = repo
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for mint module is not supported", conf.Mint.Database)
	}

	uc := mintusecase.New(eventDg, ledgerDg, sponsorClient, suisig.Verify, conf.Mint.LockTTL)

	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := mintapi.NewHTTPHandler(conf.Network, uc, conf.Mint.RequestTimeout)
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount mint API")
	}
	logger.InfoContext(ctx, "Mounted mint HTTP handler")

	return &Module{cleanupFuncs: cleanupFuncs}, nil
}

func (m *Module) Shutdown() error {
	ctx := context.Background()
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
