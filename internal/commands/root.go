package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/settleup-dev/settleup/internal/buildinfo"
	"github.com/settleup-dev/settleup/internal/config"
	"github.com/settleup-dev/settleup/internal/log"
)

// app carries state shared by the subcommands. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	dir     string
	verbose bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "settleup",
		Short:   "Settle shared group expenses",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dir, "dir", ".", "group directory")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newSettleCommand(a))
	rootCmd.AddCommand(newRatesCommand(a))

	return rootCmd
}

// setup loads .env, settleup.yaml and the environment overrides, then builds
// the logger.
func (a *app) setup(cmd *cobra.Command) error {
	absDir, err := filepath.Abs(a.dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.dir = absDir

	if err := config.LoadEnvFile(a.dir); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(filepath.Join(a.dir, config.FileName))
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	a.cfg = cfg

	logCfg := log.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logCfg.Level = level
	a.logger = log.New(logCfg).WithComponent(cmd.Name())
	a.logger.Debug("config loaded", "dir", a.dir, "reporting", cfg.Currency.Reporting)
	return nil
}

// path resolves p against the group directory.
func (a *app) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}
