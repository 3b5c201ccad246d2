// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var (
		flags    discoveryFlags
		format   string
		evidence bool
		metrics  bool
		order    bool
	)
	cmd := &cobra.Command{
		Use:   "discover LOG...",
		Short: "Build the dependency matrix of one or more logs (XES, CSV or text)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			p, err := flags.params(cmd, a.cfg.Discovery)
			if err != nil {
				return err
			}
			l, err := a.readLogs(cmd, args)
			if err != nil {
				return err
			}
			d, err := analysis.Discover(cmd.Context(), l, p)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if err := printDiscovery(w, d, format, evidence, metrics); err != nil {
				return err
			}
			if !order || format != formatText {
				return nil
			}

			return printOrder(cmd.Context(), w, d.Matrix)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&evidence, "evidence", false, "include per-pair counts in json/yaml output")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "print relation counts after the text grid")
	cmd.Flags().BoolVar(&order, "order", false, "print an activity order consistent with the temporal relations")

	return cmd
}

func printDiscovery(w io.Writer, d analysis.Discovery, format string, evidence, metrics bool) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d.Matrix.Document(evidence))
	case formatYAML:
		out, err := d.Matrix.EncodeYAML(evidence)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	if err := d.Matrix.Render(w); err != nil {
		return err
	}
	if !metrics {
		return nil
	}
	m := d.Metrics
	_, err := fmt.Fprintf(w, "\nactivities: %d\npairs: %d\nfull independences: %d\npure existences: %d\n"+
		"both: %d\ntemporal only: %d\nexistential only: %d\n",
		m.Activities, m.Pairs, m.FullIndependences, m.PureExistences,
		m.ByTag[dependency.TagBoth], m.ByTag[dependency.TagTemporal], m.ByTag[dependency.TagExistential])

	return err
}

func printOrder(ctx context.Context, w io.Writer, am *matrix.AdjacencyMatrix) error {
	acts, err := am.TemporalOrder(ctx)
	switch {
	case errors.Is(err, matrix.ErrTemporalCycle):
		_, err = fmt.Fprintf(w, "\norder: none, %v\n", err)
	case err != nil:
		return err
	default:
		_, err = fmt.Fprintf(w, "\norder: %s\n", strings.Join(acts, " -> "))
	}

	return err
}
