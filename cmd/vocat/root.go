package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/authcorp/valueobject/internal/catalog"
	"github.com/authcorp/valueobject/internal/config"
	"github.com/authcorp/valueobject/internal/logging"
	"github.com/authcorp/valueobject/metrics"
	"github.com/authcorp/valueobject/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var version = "dev"

// errInvalidValues is returned by validate after the issues were printed.
var errInvalidValues = errors.New("invalid values")

// app holds the state shared by subcommands once configuration is loaded.
type app struct {
	out     io.Writer
	errOut  io.Writer
	cfgFile string

	cfg      *config.Config
	logger   *slog.Logger
	registry *vo.Registry
	catalog  *catalog.Catalog
	catOpts  []catalog.Option
	gatherer *prometheus.Registry
}

// run executes vocat with args. Metrics are written even when the command
// fails.
func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.writeMetrics())
}

func newRootCmd(a *app) *cobra.Command {
	loader := config.NewLoader()

	root := &cobra.Command{
		Use:           "vocat",
		Short:         "Validate values against a value object catalog",
		Long:          "vocat loads a YAML catalog of value object types, prints their schemas and validates values against them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(loader)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./vocat.yaml or ~/.config/vocat/vocat.yaml)")
	flags.String("catalog", "", "path to the type catalog")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or text")
	flags.Bool("metrics", false, "print construction metrics to stderr on exit")

	for key, name := range map[string]string{
		"catalog.path":    "catalog",
		"logging.level":   "log-level",
		"logging.format":  "log-format",
		"metrics.enabled": "metrics",
	} {
		if err := loader.BindFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(newSchemaCmd(a), newValidateCmd(a), newKindsCmd(a))
	return root
}

func (a *app) setup(loader *config.Loader) error {
	cfg, err := loader.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(a.errOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	if file := loader.ConfigFile(); file != "" {
		a.logger.Debug("configuration loaded", "file", file)
	}

	a.registry = vo.DefaultRegistry()
	opts := []catalog.Option{
		catalog.WithRegistry(a.registry),
		catalog.WithLogger(a.logger),
	}
	if cfg.Metrics.Enabled {
		a.gatherer = prometheus.NewRegistry()
		obs := metrics.NewObserver(cfg.Metrics.Namespace, a.gatherer, metrics.WithRegistry(a.registry))
		opts = append(opts, catalog.WithClassOptions(vo.WithObserver(obs)))
	}
	a.catOpts = opts
	return a.loadCatalog()
}

func (a *app) loadCatalog() error {
	c, err := catalog.Load(a.cfg.Catalog.Path, a.catOpts...)
	if err != nil {
		return err
	}
	a.catalog = c
	a.logger.Info("catalog loaded", "path", a.cfg.Catalog.Path, "types", c.Len())
	return nil
}

func (a *app) writeMetrics() error {
	if a.gatherer == nil {
		return nil
	}
	families, err := a.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(a.errOut, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
