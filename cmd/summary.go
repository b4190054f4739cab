package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/workload-modeling/podtrace/trace/store"
)

var summaryStoreDir string // Directory of a persisted collection

// summaryCmd reports the composition of a stored trace collection.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a persisted trace collection",
	Run: func(cmd *cobra.Command, args []string) {
		collection, err := store.LoadCollection(summaryStoreDir)
		if err != nil {
			logrus.Fatalf("load collection: %v", err)
		}
		fmt.Print(collection.Summary())
		if collection.Ranges != nil {
			fmt.Println("normalized: yes (range table stored)")
		} else {
			fmt.Println("normalized: no")
		}
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryStoreDir, "store-dir", "data/processed/phase1", "Directory of the persisted collection")

	rootCmd.AddCommand(summaryCmd)
}
