package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/suigate/mint-gateway/common/errs"
	"github.com/suigate/mint-gateway/internal/config"
	"github.com/suigate/mint-gateway/modules/blob"
	"github.com/suigate/mint-gateway/modules/mint"
	"github.com/suigate/mint-gateway/pkg/errorhandler"
	"github.com/suigate/mint-gateway/pkg/logger"
	"github.com/suigate/mint-gateway/pkg/logger/slogx"
	"github.com/suigate/mint-gateway/pkg/middleware/requestcontext"
	"github.com/suigate/mint-gateway/pkg/middleware/requestlogger"
	"github.com/suigate/mint-gateway/pkg/sponsorclient"
	"github.com/suigate/mint-gateway/pkg/walrusclient"
)

// Register Modules
var Modules = do.Package(
	do.LazyNamed("mint", mint.New),
	do.LazyNamed("blob", blob.New),
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start mint-gateway service",
		RunE:  runHandler,
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Int("port", 8080, "HTTP server port")

	// Bind flags to configuration
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx, slogx.Stringer("network", conf.Network))

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize sponsor client
	do.Provide(injector, func(i do.Injector) (*sponsorclient.Client, error) {
		conf := do.MustInvoke[config.Config](i)
		client, err := sponsorclient.New(conf.Sponsor)
		if err != nil {
			return nil, errors.Wrap(err, "invalid sponsor configuration")
		}
		return client, nil
	})

	// Initialize Walrus client
	do.Provide(injector, func(i do.Injector) (*walrusclient.Client, error) {
		conf := do.MustInvoke[config.Config](i)
		client, err := walrusclient.New(conf.Walrus)
		if err != nil {
			return nil, errors.Wrap(err, "invalid walrus configuration")
		}
		return client, nil
	})

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "Mint Gateway",
			BodyLimit:    16 << 20, // blob uploads
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Errorf("panic: %v", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		return app, nil
	})

	// Initialize modules (each mounts its routes on the shared server)
	if _, err := do.InvokeNamed[*mint.Module](injector, "mint"); err != nil {
		return errors.Wrap(err, "can't init mint module")
	}
	if _, err := do.InvokeNamed[*blob.Module](injector, "blob"); err != nil {
		return errors.Wrap(err, "can't init blob module")
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Mint Gateway started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := httpServer.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.ErrorContext(ctx, "Failed to shutdown HTTP server gracefully", err)
	}
	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}
