// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/logger"
)

func newConvertCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "convert [LOG]",
		Short: "Convert a log (text, CSV or XES) into XES; reads text from stdin without LOG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			w, closeOut, err := openOutput(cmd, outPath)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeOut(); err == nil {
					err = cerr
				}
			}()

			if len(args) == 0 || args[0] == "-" {
				return ingest.TextToXES(cmd.Context(), cmd.InOrStdin(), w, a.cfg.Ingest.PipelineOptions()...)
			}
			res, err := a.pipeline.ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logger.Debug("converting", "file", args[0], "parser", res.ParserUsed, "traces", res.Log.Len())

			return ingest.WriteXES(w, res.Log)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "O", "", "output file (default stdout)")

	return cmd
}
