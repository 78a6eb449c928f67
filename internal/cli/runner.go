package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/remedia/internal/auth"
	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/catalog"
	"github.com/Makepad-fr/remedia/internal/config"
	"github.com/Makepad-fr/remedia/internal/language"
	"github.com/Makepad-fr/remedia/internal/logging"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
	"github.com/Makepad-fr/remedia/internal/store/jsonstore"
	"github.com/Makepad-fr/remedia/internal/store/sqlitestore"
	"github.com/Makepad-fr/remedia/internal/ui"
)

// usageError marks bad invocations; Run maps it to exit code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return &usageError{fmt.Errorf(format, a...)}
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// app carries what every subcommand needs. Fields are filled by setup.
type app struct {
	cfgPath string
	dataDir string
	verbose bool

	cfg     *config.Config
	log     *zap.Logger
	kv      store.Storage
	kvPath  string
	cart    *cart.Store
	catalog *catalog.Client
	keys    *auth.Keyring
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)

	log, err := logging.New(cfg.Storage.DataDir, a.verbose)
	if err != nil {
		return err
	}
	a.log = log

	switch cfg.Storage.Backend {
	case config.StorageSQLite:
		s, err := sqlitestore.Open(cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		a.kv, a.kvPath = s, filepath.Join(cfg.Storage.DataDir, sqlitestore.DataFileName)
	default:
		s, err := jsonstore.Open(cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		a.kv, a.kvPath = s, s.Path()
	}

	a.keys = auth.New(cfg.Storage.DataDir)
	a.cart = cart.New(a.kv, log)
	kv := a.kv
	a.catalog = catalog.New(catalog.Options{
		BaseURL:  cfg.Catalog.BaseURL,
		Timeout:  cfg.CatalogTimeout(),
		Token:    a.keys.Bearer(),
		Language: func() string { return language.Get(kv) },
		Log:      log,
	})
	log.Debug("ready",
		zap.String("command", cmd.CommandPath()),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("catalog", cfg.Catalog.BaseURL))
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.Warn("close storage", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// ctx bounds one catalog call by the configured timeout.
func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.CatalogTimeout())
}

// rootCmd builds the command tree around a.
func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "remedia",
		Short: "remedia - a terminal storefront for products and home remedies",
		Long: `remedia browses the product and remedy catalog, keeps a cart and walks
through checkout. Products ship to an address; remedies are handed over as
a document.

Run without a subcommand to open the interactive storefront.`,
		Args:              wrapArgs(cobra.NoArgs),
		PersistentPreRunE: a.setup,
		RunE:              a.runBrowse,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default $XDG_CONFIG_HOME/remedia/config.yaml)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "where the cart and logs live (default ~/.remedia)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &usageError{err} })

	root.AddCommand(
		a.browseCmd(),
		a.catalogCmd("products", model.KindProduct),
		a.catalogCmd("remedies", model.KindRemedy),
		a.cartCmd(),
		a.checkoutCmd(),
		a.buyCmd(),
		a.langCmd(),
		a.authCmd(),
	)
	return root
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string) int {
	a := &app{}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(ui.Out)
	root.SetErr(ui.Err)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(ui.Err)
		fmt.Fprint(ui.Err, cmd.UsageString())
		return 2
	}
	return 1
}
