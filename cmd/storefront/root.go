package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dwikikusuma/honey-storefront/internal/apperr"
	"github.com/dwikikusuma/honey-storefront/internal/notify"
	"github.com/dwikikusuma/honey-storefront/internal/storefront"
	"github.com/dwikikusuma/honey-storefront/pkg/config"
	"github.com/dwikikusuma/honey-storefront/pkg/logger"
	"github.com/dwikikusuma/honey-storefront/pkg/shutdown"
	"github.com/dwikikusuma/honey-storefront/pkg/telemetry"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
)

var errNotSignedIn = apperr.New("storefront", apperr.ErrAuthRejected, "not signed in", nil)

// cli carries what the commands share: flags, and the App once built.
type cli struct {
	apiURL   string
	driver   string
	dsn      string
	logLevel string

	app         *storefront.App
	stopTracing telemetry.Shutdown
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", apperr.Message(err))
		return exitCode(err)
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Honey storefront client",
		Long:          "Sign in, browse products and manage the shopping cart of the honey storefront from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "storefront API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&c.driver, "store-driver", "", "local store driver: memory, sqlite, postgres or redis")
	root.PersistentFlags().StringVar(&c.dsn, "store-dsn", "", "local store DSN or path")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.profileCmd(),
		c.passwordCmd(),
		c.pointsCmd(),
		c.couponsCmd(),
		c.addressesCmd(),
		c.accountCmd(),
		c.productsCmd(),
		c.cartCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}
	if c.driver != "" {
		cfg.Store.Driver = c.driver
	}
	if c.dsn != "" {
		cfg.Store.DSN = c.dsn
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	} else if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Writer:  cmd.ErrOrStderr(),
	})

	c.stopTracing, err = telemetry.Setup(telemetry.Options{
		Enabled: cfg.OTelEnabled,
		Service: "storefront-cli",
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	c.app, err = storefront.New(cmd.Context(), cfg, log,
		storefront.WithNotifier(&printNotifier{w: cmd.ErrOrStderr()}),
	)
	return err
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			c.app.Log.Warn("closing store", slog.Any("err", err))
		}
	}
	if c.stopTracing != nil {
		_ = shutdown.Graceful(5*time.Second, c.stopTracing)
	}
}

// printNotifier shows user-facing warnings on stderr.
type printNotifier struct {
	w io.Writer
}

func (p *printNotifier) Notify(ctx context.Context, n notify.Notification) {
	fmt.Fprintf(p.w, "%s: %s\n", n.Level, n.Message)
}

// exitCode maps an error onto a process exit status by its kind.
func exitCode(err error) int {
	switch apperr.Code(err) {
	case codes.OK:
		return 0
	case codes.InvalidArgument:
		return 2
	case codes.FailedPrecondition:
		return 3
	case codes.NotFound:
		return 4
	case codes.Unauthenticated:
		return 5
	case codes.Unavailable, codes.DeadlineExceeded:
		return 6
	case codes.Internal:
		return 7
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
