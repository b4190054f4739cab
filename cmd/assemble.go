package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/workload-modeling/podtrace/trace"
	"github.com/workload-modeling/podtrace/trace/normalize"
	"github.com/workload-modeling/podtrace/trace/store"
)

var (
	assembleDataDir     string  // Root directory of raw experiment group directories
	assembleOutDir      string  // Output directory for the persisted collection
	assembleNormalize   bool    // Normalize traces before persisting
	assembleRangesPath  string  // Range table YAML; empty selects the fixed absolute table
	assembleDeriveRange bool    // Derive ranges from the assembled data instead
	assemblePercentile  float64 // Percentile for derived max bounds
	assembleMargin      float64 // Safety margin factor for derived max bounds
)

// assembleCmd turns raw per-metric CSV exports into a stored trace collection.
var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Merge raw metric CSVs into pod traces and persist the collection",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := trace.DefaultCatalog()

		collection, err := trace.LoadDataset(assembleDataDir, catalog)
		if err != nil {
			logrus.Fatalf("load dataset: %v", err)
		}
		if len(collection.Traces) == 0 {
			logrus.Fatalf("no complete pod traces assembled from %s", assembleDataDir)
		}

		if assembleNormalize {
			table, err := resolveRangeTable(collection, catalog)
			if err != nil {
				logrus.Fatalf("resolve range table: %v", err)
			}
			normalizer, err := normalize.NewNormalizer(table, catalog.Metrics())
			if err != nil {
				logrus.Fatalf("build normalizer: %v", err)
			}
			collection, err = collection.Normalize(normalizer)
			if err != nil {
				logrus.Fatalf("normalize collection: %v", err)
			}
		}

		if err := store.SaveCollection(assembleOutDir, collection, catalog.Metrics()); err != nil {
			logrus.Fatalf("save collection: %v", err)
		}
		logrus.Info("Assembly complete.")
	},
}

// resolveRangeTable picks the normalization bounds: an explicit YAML file,
// data-derived bounds, or the fixed absolute defaults, in that priority.
func resolveRangeTable(c *trace.Collection, catalog trace.Catalog) (normalize.RangeTable, error) {
	if assembleRangesPath != "" {
		table, _, err := normalize.LoadRangeTable(assembleRangesPath)
		return table, err
	}
	if assembleDeriveRange {
		values := make([][][]float64, len(c.Traces))
		for i, tr := range c.Traces {
			values[i] = tr.Values
		}
		return normalize.DeriveRanges(values, catalog.Metrics(), normalize.DeriveOptions{
			Percentile: assemblePercentile,
			Margin:     assembleMargin,
		})
	}
	return normalize.DefaultRanges(), nil
}

func init() {
	assembleCmd.Flags().StringVar(&assembleDataDir, "data-dir", "data/raw/phase1", "Directory of <workload>_r<N> experiment group directories")
	assembleCmd.Flags().StringVar(&assembleOutDir, "out-dir", "data/processed/phase1", "Directory for the persisted trace collection")
	assembleCmd.Flags().BoolVar(&assembleNormalize, "normalize", false, "Normalize traces to [0,1] before persisting")
	assembleCmd.Flags().StringVar(&assembleRangesPath, "ranges", "", "Range table YAML file (default: fixed absolute ranges)")
	assembleCmd.Flags().BoolVar(&assembleDeriveRange, "derive-ranges", false, "Derive ranges from the assembled traces instead of fixed bounds")
	assembleCmd.Flags().Float64Var(&assemblePercentile, "percentile", normalize.DefaultPercentile, "Percentile for derived max bounds")
	assembleCmd.Flags().Float64Var(&assembleMargin, "margin", normalize.DefaultMargin, "Safety margin factor for derived max bounds")

	rootCmd.AddCommand(assembleCmd)
}
