package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerjwt"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerserver"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerservice"
)

func newServeCommand(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *app) error {
	cfg, log := rt.cfg, rt.log
	if err := cfg.Validate(); err != nil {
		return err
	}

	gw, closeGW, err := rt.openGateway(ctx, true)
	if err != nil {
		return err
	}
	defer closeGW()

	issuer, err := jaegerjwt.NewIssuer(cfg.JWT())
	if err != nil {
		return err
	}
	metrics := jaegerserver.NewMetrics()
	svc := jaegerservice.New(gw, issuer, jaegerservice.Options{
		BcryptCost: cfg.BcryptCost,
		Recorder:   metrics,
	}, log)
	srv := jaegerserver.NewServer(svc, gw, issuer, metrics, jaegerserver.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateBurst:  cfg.AuthRateBurst,
		Version:        version,
	}, log)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", cfg.HTTPAddr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("error starting the server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func newMigrateCommand(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := rt.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return jaegerdb.NewMigrator(db, rt.log).Up(cmd.Context(), jaegerdb.Migrations())
		},
	}
}

func newCreateAdminCommand(rt *app) *cobra.Command {
	var in jaegermodel.RegisterInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := rt.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := jaegerdb.NewMigrator(db, rt.log).Up(ctx, jaegerdb.Migrations()); err != nil {
				return err
			}

			// Provisioning never issues a token.
			svc := jaegerservice.New(db, nil, jaegerservice.Options{BcryptCost: rt.cfg.BcryptCost}, rt.log)
			admin, err := svc.Auth.CreateAdmin(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created administrator %s with ID %d\n", admin.Email, admin.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "administrator email")
	f.StringVar(&in.Password, "password", "", "administrator password")
	f.StringVar(&in.FirstName, "first-name", "", "administrator first name")
	f.StringVar(&in.LastName, "last-name", "", "administrator last name")
	for _, name := range []string{"email", "password", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
