// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/logger"
	"github.com/anonymoushlmnop/matrix-discovery/mcptool"
	"github.com/anonymoushlmnop/matrix-discovery/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve discovery, evaluation and statistics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Address = addr
			}
			logger.Debug("serve", "version", version)

			return server.New(a.cfg).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")

	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the discovery tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Info("starting mcp server", "transport", "stdio", "version", version)

			return mcptool.RunStdio(cmd.Context(), a.cfg, version)
		},
	}
}
