// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"path/filepath"

	"irmas-audit/internal/observability"
	"irmas-audit/internal/outdated"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newOutdatedCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "outdated",
		Short: "Scan the software inventory against the version policy",
		Long: `Reads every *.json inventory in the inventory directory and writes the
outdated-software detail report consumed by "merge".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appConfig
			policy, err := outdated.LoadPolicy(cfg.Outdated.PolicyFile)
			if err != nil {
				return err
			}

			scanner := outdated.NewScanner(policy, observability.GetLogger())
			rows, err := scanner.ScanDir(cmd.Context(), cfg.Outdated.InventoryDir)
			if err != nil {
				return err
			}

			path := outputFile
			if path == "" {
				path = filepath.Join(cfg.Inputs.BaseDir, cfg.Inputs.OutdatedFile)
			}
			if err := outdated.WriteReport(path, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s outdated installs written to %s\n", color.YellowString("%d", len(rows)), path)
			return nil
		},
	}

	cmd.Flags().String("policy", "", "software policy file")
	cmd.Flags().String("inventory", "", "directory of inventory exports")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "report path (default: inputs.base_dir/inputs.outdated_file)")
	_ = overrides.BindPFlag("outdated.policy_file", cmd.Flags().Lookup("policy"))
	_ = overrides.BindPFlag("outdated.inventory_dir", cmd.Flags().Lookup("inventory"))
	return cmd
}
