// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
)

func newStatsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats LOG...",
		Short: "Print variant and prefix-automaton statistics of one or more logs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			l, err := a.readLogs(cmd, args)
			if err != nil {
				return err
			}
			st, err := analysis.LogStats(l)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			case formatYAML:
				return writeYAML(w, st)
			}
			_, err = fmt.Fprintf(w, "traces: %d\nevents: %d\nactivities: %d\nvariants: %d\n"+
				"max variant frequency: %.4f\nvariants per trace: %.4f\nepa states: %d\n"+
				"variant entropy: %.4f\nnormalized variant entropy: %.4f\n",
				st.Traces, st.Events, st.Activities, st.Variants,
				st.MaxVariantFrequency, st.VariantsPerTrace, st.EPAStates,
				st.VariantEntropy, st.NormalizedVariantEntropy)

			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")

	return cmd
}
