package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-accounts-service/internal/bootstrap"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

const defaultProfile = "local"

// app carries state shared by every subcommand. The injector is built on
// first use so commands that never touch the store do not connect to it.
type app struct {
	profile    string
	configDir  string
	configFile string
	envFile    string

	out    io.Writer
	errOut io.Writer

	loadConfig func(profile string, opts ...config.Option) (*config.Config, error)

	cfg      *config.Config
	logger   *slog.Logger
	injector *do.RootScope
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:        out,
		errOut:     errOut,
		loadConfig: config.Load,
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "accountsctl",
		Short:         "Operate the accounts service: schema migrations and account commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = defaultProfile
	}

	cmd.PersistentFlags().StringVarP(&a.profile, "profile", "p", profile, "Configuration profile (local, dev, qa, prod)")
	cmd.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "Directory holding the YAML profiles (default \"configs\")")
	cmd.PersistentFlags().StringVar(&a.configFile, "config-file", os.Getenv("APP_CONFIG_FILE"), "YAML file layered over the profile")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", os.Getenv("APP_ENV_FILE"), "Dotenv file merged into the environment (default \".env\")")

	cmd.AddCommand(migrateCmd(a))
	cmd.AddCommand(accountCmd(a))
	return cmd
}

// config loads and caches the configuration for the selected profile.
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	var opts []config.Option
	if a.configDir != "" {
		opts = append(opts, config.WithConfigDir(a.configDir))
	}
	if a.configFile != "" {
		opts = append(opts, config.WithOverrideFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}

	cfg, err := a.loadConfig(a.profile, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	a.cfg = cfg
	a.logger = logging.New(logging.ResolveLevel(cfg.Log.Level, cfg.Log.Debug), "text", a.errOut)
	return cfg, nil
}

// dispatcher wires the application graph on first call and returns its
// dispatcher.
func (a *app) dispatcher(ctx context.Context) (ports.Dispatcher, error) {
	if a.injector == nil {
		cfg, err := a.config()
		if err != nil {
			return nil, err
		}

		injector := do.New()
		do.ProvideValue(injector, cfg)
		do.ProvideValue(injector, a.logger)
		do.ProvideValue(injector, (*telemetry.Metrics)(nil))
		bootstrap.Provide(ctx, injector)
		a.injector = injector
	}

	d, err := do.Invoke[ports.Dispatcher](a.injector)
	if err != nil {
		return nil, fmt.Errorf("wiring dispatcher: %w", err)
	}
	return d, nil
}

// close releases store connections opened by dispatcher.
func (a *app) close() {
	if a.injector == nil {
		return
	}
	if b, err := do.Invoke[*bootstrap.Backends](a.injector); err == nil {
		b.Close()
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
