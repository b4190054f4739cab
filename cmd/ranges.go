package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/workload-modeling/podtrace/trace"
	"github.com/workload-modeling/podtrace/trace/normalize"
)

var (
	rangesDataDir    string  // Raw data root to derive ranges from; empty prints the fixed table
	rangesOutPath    string  // Optional YAML output path
	rangesPercentile float64 // Percentile for derived max bounds
	rangesMargin     float64 // Safety margin factor for derived max bounds
)

// rangesCmd derives or prints a normalization range table.
var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Print or derive the normalization range table",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := trace.DefaultCatalog()

		table := normalize.DefaultRanges()
		if rangesDataDir != "" {
			collection, err := trace.LoadDataset(rangesDataDir, catalog)
			if err != nil {
				logrus.Fatalf("load dataset: %v", err)
			}
			values := make([][][]float64, len(collection.Traces))
			for i, tr := range collection.Traces {
				values[i] = tr.Values
			}
			table, err = normalize.DeriveRanges(values, catalog.Metrics(), normalize.DeriveOptions{
				Percentile: rangesPercentile,
				Margin:     rangesMargin,
			})
			if err != nil {
				logrus.Fatalf("derive ranges: %v", err)
			}
		}

		fmt.Print(table.Stats(catalog.Metrics()))

		if rangesOutPath != "" {
			if err := normalize.SaveRangeTable(rangesOutPath, table, catalog.Metrics()); err != nil {
				logrus.Fatalf("save range table: %v", err)
			}
			logrus.Infof("range table written to %s", rangesOutPath)
		}
	},
}

func init() {
	rangesCmd.Flags().StringVar(&rangesDataDir, "data-dir", "", "Derive ranges from this raw data root (default: fixed absolute ranges)")
	rangesCmd.Flags().StringVar(&rangesOutPath, "out", "", "Write the table to this YAML file")
	rangesCmd.Flags().Float64Var(&rangesPercentile, "percentile", normalize.DefaultPercentile, "Percentile for derived max bounds")
	rangesCmd.Flags().Float64Var(&rangesMargin, "margin", normalize.DefaultMargin, "Safety margin factor for derived max bounds")

	rootCmd.AddCommand(rangesCmd)
}
