package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	authclient "github.com/vibast-solutions/lib-go-auth/client"
	authmiddleware "github.com/vibast-solutions/lib-go-auth/middleware"
	authlibservice "github.com/vibast-solutions/lib-go-auth/service"
	"github.com/vibast-solutions/ms-go-escrow/app/controller"
	escrowgrpc "github.com/vibast-solutions/ms-go-escrow/app/grpc"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
	"github.com/vibast-solutions/ms-go-escrow/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start both HTTP (Echo) and gRPC servers for the escrow mediator.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, escrowService, cleanup := mustCreateEscrowService()
	defer cleanup()

	escrowController := controller.NewEscrowController(escrowService)
	grpcEscrowServer := escrowgrpc.NewServer(escrowService)

	authGRPCClient, err := authclient.NewGRPCClientFromAddr(context.Background(), cfg.InternalEndpoints.AuthGRPCAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize auth gRPC client")
	}
	defer authGRPCClient.Close()

	internalAuthService := authlibservice.NewInternalAuthService(authGRPCClient)
	echoInternalAuthMiddleware := authmiddleware.NewEchoInternalAuthMiddleware(internalAuthService)
	grpcInternalAuthMiddleware := authmiddleware.NewGRPCInternalAuthMiddleware(internalAuthService)

	e := setupHTTPServer(escrowController, echoInternalAuthMiddleware, cfg.App.ServiceName)
	grpcSrv, lis := setupGRPCServer(cfg, grpcEscrowServer, grpcInternalAuthMiddleware, cfg.App.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("HTTP shutdown error")
		}
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("Server error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	escrowController *controller.EscrowController,
	internalAuthMiddleware *authmiddleware.EchoInternalAuthMiddleware,
	appServiceName string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"request_id": v.RequestID,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(requireRequestID())

	e.GET("/health", escrowController.Health)

	// Receipts come from the ledger and carry their own signature.
	e.POST("/webhooks/ledger/:hash", escrowController.HandleTransferReceipt)

	api := e.Group("", internalAuthMiddleware.RequireInternalAccess(appServiceName))

	payments := api.Group("/payments")
	payments.POST("", escrowController.RequestPayment)
	payments.GET("", escrowController.ListPayments)
	payments.GET("/:id", escrowController.GetPayment)
	payments.GET("/:id/transfers", escrowController.ListPaymentTransfers)
	payments.GET("/:id/events", escrowController.ListPaymentEvents)
	payments.POST("/:id/pay", escrowController.Pay)
	payments.POST("/:id/confirm", escrowController.Confirm)
	payments.POST("/:id/claim", escrowController.Claim)

	api.GET("/orders/:order_id/payment", escrowController.GetPaymentByOrder)

	mediator := api.Group("/mediator")
	mediator.GET("", escrowController.GetMediator)
	mediator.POST("/withdraw", escrowController.Withdraw)
	mediator.PUT("/fee-rate", escrowController.SetFeeRate)

	return e
}

func requireRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if requestID == "" {
				return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: "x-request-id header is required"})
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(ctx)
		}
	}
}

func setupGRPCServer(
	cfg *config.Config,
	escrowServer *escrowgrpc.Server,
	internalAuthMiddleware *authmiddleware.GRPCInternalAuthMiddleware,
	appServiceName string,
) (*grpc.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			escrowgrpc.RecoveryInterceptor(),
			escrowgrpc.RequestIDInterceptor(),
			escrowgrpc.LoggingInterceptor(),
			internalAuthMiddleware.UnaryRequireInternalAccess(appServiceName),
		),
	)
	types.RegisterEscrowServiceServer(grpcSrv, escrowServer)

	return grpcSrv, lis
}
