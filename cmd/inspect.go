package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var inspectDataDir string // Raw data root to inspect

// inspectCmd reports the structure of every experiment CSV without
// assembling anything: file counts per group, headers, and row counts.
// Useful when an export looks off before committing to a full assemble.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the CSV file structure of every experiment group directory",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := os.ReadDir(inspectDataDir)
		if err != nil {
			logrus.Fatalf("read data dir: %v", err)
		}

		var groups []string
		for _, e := range entries {
			if e.IsDir() {
				groups = append(groups, e.Name())
			}
		}
		sort.Strings(groups)
		fmt.Printf("data directory: %s (%d group directories)\n", inspectDataDir, len(groups))

		for _, group := range groups {
			dir := filepath.Join(inspectDataDir, group)
			files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
			if err != nil {
				logrus.Fatalf("glob %s: %v", dir, err)
			}
			sort.Strings(files)

			fmt.Printf("\n%s: %d CSV files\n", group, len(files))
			for _, file := range files {
				header, rows, err := scanCSV(file)
				if err != nil {
					fmt.Printf("  %-60s ERROR: %v\n", filepath.Base(file), err)
					continue
				}
				fmt.Printf("  %-60s %5d rows  columns=%v\n", filepath.Base(file), rows, header)
			}
		}
	},
}

// scanCSV returns a CSV file's header and data row count.
func scanCSV(path string) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("no header: %v", err)
	}
	rows := 0
	for {
		if _, err := reader.Read(); err == io.EOF {
			break
		} else if err != nil {
			return header, rows, err
		}
		rows++
	}
	return header, rows, nil
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDataDir, "data-dir", "data/raw/phase1", "Directory of experiment group directories")

	rootCmd.AddCommand(inspectCmd)
}
