// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"irmas-audit/internal/observability"
	"irmas-audit/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Merge once and serve the result over a read-only HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, _, err := runMerge(ctx, appConfig)
			if err != nil {
				return err
			}

			if appConfig.Logger.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			logger := observability.GetLogger()
			handler := server.NewHandler(server.Snapshot{
				Registry: m.Registry(),
				Missing:  m.Missing().Sorted(),
			})
			return server.Serve(ctx, appConfig.Server.Addr, server.NewRouter(handler, logger), logger)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	_ = overrides.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
