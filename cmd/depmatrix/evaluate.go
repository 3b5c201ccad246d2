// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anonymoushlmnop/matrix-discovery/analysis"
	"github.com/anonymoushlmnop/matrix-discovery/evaluation"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		flags         discoveryFlags
		truthPath     string
		format        string
		maxMismatches int
	)
	cmd := &cobra.Command{
		Use:   "evaluate --truth FILE LOG...",
		Short: "Score the discovered matrix against a ground truth",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			p, err := flags.params(cmd, a.cfg.Discovery)
			if err != nil {
				return err
			}
			gt, err := evaluation.Load(truthPath)
			if err != nil {
				return err
			}
			l, err := a.readLogs(cmd, args)
			if err != nil {
				return err
			}
			ev, err := analysis.Evaluate(cmd.Context(), l, gt, p)
			if err != nil {
				return err
			}
			if maxMismatches > 0 && len(ev.Report.Mismatches) > maxMismatches {
				ev.Report.Mismatches = ev.Report.Mismatches[:maxMismatches]
			}

			return printReport(cmd.OutOrStdout(), ev, format)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&truthPath, "truth", "", "ground truth file (.yaml/.yml or line format)")
	_ = cmd.MarkFlagRequired("truth")
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")
	cmd.Flags().IntVar(&maxMismatches, "max-mismatches", 20, "mismatching pairs to list (0 = all)")

	return cmd
}

type reportView struct {
	RunID       string                `json:"run_id" yaml:"run_id"`
	Pairs       int                   `json:"pairs" yaml:"pairs"`
	Temporal    kindView              `json:"temporal" yaml:"temporal"`
	Existential kindView              `json:"existential" yaml:"existential"`
	Mismatches  []evaluation.Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

type kindView struct {
	Counts evaluation.Counts `json:"counts" yaml:"counts"`
	Rates  evaluation.Rates  `json:"rates" yaml:"rates"`
}

func printReport(w io.Writer, ev analysis.Evaluation, format string) error {
	rep := ev.Report
	view := reportView{
		RunID:       ev.RunID,
		Pairs:       rep.Pairs,
		Temporal:    kindView{Counts: rep.Temporal, Rates: rep.Temporal.Rates()},
		Existential: kindView{Counts: rep.Existential, Rates: rep.Existential.Rates()},
		Mismatches:  rep.Mismatches,
	}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatYAML:
		return writeYAML(w, view)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "kind\tTP\tFP\tFN\tTN\tprecision\trecall\tF1\taccuracy")
	for _, row := range []struct {
		name string
		k    kindView
	}{{"temporal", view.Temporal}, {"existential", view.Existential}} {
		c, r := row.k.Counts, row.k.Rates
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			row.name, c.TP, c.FP, c.FN, c.TN, r.Precision, r.Recall, r.F1, r.Accuracy)
	}
	if len(view.Mismatches) > 0 {
		fmt.Fprintln(tw, "\nfrom\tto\tdiscovered\texpected")
		for _, m := range view.Mismatches {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.From, m.To, m.Discovered, m.Expected)
		}
	}

	return tw.Flush()
}
