// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"irmas-audit/internal/dispatch"
	"irmas-audit/internal/observability"

	"github.com/spf13/cobra"
)

func newDispatchCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Copy the last merge's artifacts to the OneDrive folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := dispatch.OptionsFromConfig(appConfig)
			if force {
				opts.Enabled = true
			}
			result, err := dispatch.Run(cmd.Context(), opts, dispatch.Sources(appConfig, true), observability.GetLogger())
			if err != nil {
				return err
			}
			printDispatch(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "dispatch even when dispatch.enabled is false")
	return cmd
}
