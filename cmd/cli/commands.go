package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gostrata/adapters/stats/association"
	"gostrata/adapters/stats/density"
	"gostrata/adapters/stats/entropy"
	"gostrata/app"
	"gostrata/domain/stats"
	"gostrata/internal/errors"
	"gostrata/internal/profiling"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newBinsCmd(a *cliApp) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:     "bins [data-file]",
		Short:   "Report the bin count every bin method selects for a column",
		Example: `  gostrata bins data.csv --column value`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.reader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			sample, err := table.Floats(column)
			if err != nil {
				return err
			}

			type binsRow struct {
				Method stats.BinMethod `json:"method"`
				Bins   int             `json:"bins"`
			}
			rows := make([]binsRow, 0, len(stats.BinMethods()))
			for _, m := range stats.BinMethods() {
				bins, err := density.SelectBinCount(sample, m)
				if err != nil {
					return errors.Wrapf(err, "%s bin count", m)
				}
				rows = append(rows, binsRow{Method: m, Bins: bins})
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&column, "column", "value", "Numeric column to bin")
	return cmd
}

func newDensityCmd(a *cliApp) *cobra.Command {
	var column string
	var edges string

	cmd := &cobra.Command{
		Use:   "density [data-file]",
		Short: "Estimate the histogram density of a column",
		Long: `Estimate the histogram density of a column, either with automatic bins from
--method or with explicit ascending --edges (bins are [e_i, e_i+1), the last
edge is included in the last bin).`,
		Example: `  gostrata density data.csv --column value --method Rice
  gostrata density data.csv --column value --edges 0,1,2,4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.reader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			sample, err := table.Floats(column)
			if err != nil {
				return err
			}

			var hist *stats.Histogram
			if edges != "" {
				parsed, err := parseEdges(edges)
				if err != nil {
					return err
				}
				hist, err = density.EstimateWithEdges(sample, parsed)
				if err != nil {
					return errors.Wrap(err, "density with edges")
				}
			} else {
				hist, err = density.Estimate(sample, a.cfg.Analysis.BinMethod)
				if err != nil {
					return errors.Wrap(err, "density")
				}
			}

			return writeJSON(cmd.OutOrStdout(), struct {
				Edges  []float64          `json:"edges"`
				Counts []int              `json:"counts"`
				Curve  stats.DensityCurve `json:"curve"`
			}{hist.Edges, hist.Counts, hist.Curve()})
		},
	}

	cmd.Flags().StringVar(&column, "column", "value", "Numeric column to estimate")
	cmd.Flags().StringVar(&edges, "edges", "", "Comma-separated ascending bin edges")
	return cmd
}

func parseEdges(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	edges := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("edge %d: %q is not a number", i, p))
		}
		edges[i] = v
	}
	if err := density.ValidateEdges(edges); err != nil {
		return nil, errors.Wrap(err, "edges")
	}
	return edges, nil
}

func newDescribeCmd(a *cliApp) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "describe [data-file]",
		Short: "Summarize a numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.reader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			sample, err := table.Floats(column)
			if err != nil {
				return err
			}
			summary, err := profiling.Summarize(sample)
			if err != nil {
				return errors.Wrap(err, "summarize")
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&column, "column", "value", "Numeric column to summarize")
	return cmd
}

// groupEntropy is one group's relative entropy against the whole response
type groupEntropy struct {
	Label           int     `json:"label"`
	Name            string  `json:"name,omitempty"`
	Size            int     `json:"size"`
	RelativeEntropy float64 `json:"relative_entropy"`
	Squashed        float64 `json:"squashed"`
}

func newEntropyCmd(a *cliApp) *cobra.Command {
	var response, labels string

	cmd := &cobra.Command{
		Use:   "entropy [data-file]",
		Short: "Relative entropy of each group's response against the whole response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.reader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			d, err := table.Floats(response)
			if err != nil {
				return err
			}
			s, names, err := table.Labels(labels)
			if err != nil {
				return err
			}

			keys, grouped := association.Groups(d, s)
			rows := make([]groupEntropy, 0, len(keys))
			for _, k := range keys {
				re, err := entropy.RelativeEntropy(grouped[k], d, a.cfg.Analysis.BinMethod)
				if err != nil {
					return errors.Wrapf(err, "group %d", k)
				}
				row := groupEntropy{Label: k, Size: len(grouped[k]), RelativeEntropy: re, Squashed: association.Squash(re)}
				if names != nil {
					row.Name = names[k]
				}
				rows = append(rows, row)
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&response, "response", "value", "Numeric response column")
	cmd.Flags().StringVar(&labels, "labels", "group", "Label column (integers or categories)")
	return cmd
}

func newICCmd(a *cliApp) *cobra.Command {
	var response, labels string

	cmd := &cobra.Command{
		Use:     "ic [data-file]",
		Short:   "Continuous association of a numeric response with a label column",
		Example: `  gostrata ic data.csv --response value --labels group --permutations 1000 --seed 42`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.reader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			d, err := table.Floats(response)
			if err != nil {
				return err
			}
			s, _, err := table.Labels(labels)
			if err != nil {
				return err
			}

			result, err := a.service().Continuous(cmd.Context(), app.ContinuousRequest{
				Response:     d,
				Labels:       s,
				BinMethod:    a.cfg.Analysis.BinMethod,
				Permutations: a.cfg.Analysis.Permutations,
				Seed:         a.cfg.Analysis.Seed,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&response, "response", "value", "Numeric response column")
	cmd.Flags().StringVar(&labels, "labels", "group", "Label column (integers or categories)")
	return cmd
}

func newINCmd(a *cliApp) *cobra.Command {
	var response, labels string

	cmd := &cobra.Command{
		Use:     "in [data-file]",
		Short:   "Discrete association of a categorical response with a label column",
		Example: `  gostrata in data.xlsx --response outcome --labels arm --permutations 500`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.reader(args[0]).ReadTable()
			if err != nil {
				return err
			}
			d, _, err := table.Labels(response)
			if err != nil {
				return err
			}
			s, _, err := table.Labels(labels)
			if err != nil {
				return err
			}

			result, err := a.service().Discrete(cmd.Context(), app.DiscreteRequest{
				Response:     d,
				Labels:       s,
				Permutations: a.cfg.Analysis.Permutations,
				Seed:         a.cfg.Analysis.Seed,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&response, "response", "outcome", "Categorical response column")
	cmd.Flags().StringVar(&labels, "labels", "group", "Label column")
	return cmd
}
