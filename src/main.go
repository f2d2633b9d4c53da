package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerconfig"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb/memdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegerlog"
)

var version = "1.0.0"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every subcommand starts from: settings and a logger.
type app struct {
	envFile  string
	cfg      jaegerconfig.Config
	log      *zap.Logger
	closeLog func() error
}

func newRootCommand() *cobra.Command {
	rt := &app{}
	root := &cobra.Command{
		Use:           "jaeger",
		Short:         "Job application tracker backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.closeLog != nil {
				return rt.closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&rt.envFile, "env-file", ".env", "environment file read before the process environment")

	root.AddCommand(
		newServeCommand(rt),
		newMigrateCommand(rt),
		newCreateAdminCommand(rt),
	)
	return root
}

func (rt *app) setup() error {
	cfg, err := jaegerconfig.Load(rt.envFile, "../.env")
	if err != nil {
		return err
	}
	log, closeLog, err := jaegerlog.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	rt.cfg, rt.log, rt.closeLog = cfg, log, closeLog
	return nil
}

// openGateway connects to PostgreSQL when DB_URL is set, applying migrations
// if asked. Without DB_URL it falls back to a seeded in-memory store.
func (rt *app) openGateway(ctx context.Context, migrate bool) (jaegerdb.Gateway, func(), error) {
	if rt.cfg.DBURL == "" {
		rt.log.Warn("DB_URL is not set, data lives in memory only")
		st := memdb.New()
		if err := st.Seed(ctx); err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	}

	db, err := rt.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := jaegerdb.NewMigrator(db, rt.log).Up(ctx, jaegerdb.Migrations()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("applying migrations: %w", err)
		}
	}
	return db, db.Close, nil
}

func (rt *app) connect(ctx context.Context) (*jaegerdb.DB, error) {
	if rt.cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}
	return jaegerdb.ConnectJaegerDB(ctx, jaegerdb.Options{
		URL:       rt.cfg.DBURL,
		MaxConns:  rt.cfg.DBMaxConns,
		OpTimeout: rt.cfg.DBOpTimeout,
	}, rt.log)
}
