// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"irmas-audit/internal/config"
	"irmas-audit/internal/observability"
	"irmas-audit/internal/version"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	cfgFile string
	noColor bool

	// appConfig is set by the root PersistentPreRunE before any subcommand runs.
	appConfig *config.Config
	// overrides collects flag bindings; subcommands bind into it in their constructors.
	overrides = config.NewViper()
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "irmas-audit",
		Short:         "Merge IRMAS compliance reports into per-person notifications",
		Long:          `irmas-audit merges the antivirus, banned-software and outdated-software reports scraped from the IRMAS portal, matches every person against the LDAP address book and writes the notification pages, message list and HTML report.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./irmas.yaml, then the user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	_ = overrides.BindPFlag("logger.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newMergeCmd(),
		newReportCmd(),
		newOutdatedCmd(),
		newContactsCmd(),
		newDispatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// initialize loads .env, the config file and overrides, then the logger.
func initialize() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	path := cfgFile
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		observability.InitializeLogger(config.Default().Logger)
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ApplyOverrides(cfg, overrides); err != nil {
		observability.InitializeLogger(config.Default().Logger)
		return fmt.Errorf("invalid configuration: %w", err)
	}
	appConfig = cfg

	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	observability.InitializeLogger(cfg.Logger)
	observability.GetLogger().Debug("configuration loaded",
		zap.String("config_file", path),
		zap.String("version", version.Short()))
	return nil
}

// Execute runs the command line with ctx as the command context.
func Execute(ctx context.Context) error {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == nil {
			fmt.Fprintln(stderr, color.RedString("Error:"), err)
		}
		return err
	}
	return nil
}
