package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/settleup-dev/settleup/internal/config"
	"github.com/settleup-dev/settleup/internal/expense"
	"github.com/settleup-dev/settleup/internal/template"
)

type initOptions struct {
	members  []string
	currency string
	rows     int
	force    bool
}

func newInitCommand(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a group config and a blank expense sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInit(a.dir, args[0], opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expense template '%s.csv' created in %s\n", args[0], a.dir)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.members, "member", "m", nil, "group member (repeatable, required)")
	_ = cmd.MarkFlagRequired("member")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "reporting currency (default DKK)")
	cmd.Flags().IntVar(&opts.rows, "rows", template.DefaultRows, "blank rows in the template")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing config and template")

	return cmd
}

func runInit(dir, name string, opts initOptions) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid sheet name %q", name)
	}

	// "--member Anna,Bo" works as well as repeating the flag.
	members := expense.SplitParticipants(strings.Join(opts.members, ","))
	if len(members) == 0 {
		return template.ErrNoMembers
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	sheetPath := filepath.Join(dir, name+".csv")
	if !opts.force {
		for _, p := range []string{cfgPath, sheetPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", filepath.Base(p))
			} else if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", filepath.Base(p), err)
			}
		}
	}

	// Write settleup.yaml.
	cfg := config.Default(name, members)
	if opts.currency != "" {
		cfg.Currency.Reporting = strings.ToUpper(strings.TrimSpace(opts.currency))
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the blank sheet.
	f, err := os.Create(sheetPath)
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	if err := template.Write(f, members, opts.rows); err != nil {
		f.Close()
		return fmt.Errorf("writing template: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}
