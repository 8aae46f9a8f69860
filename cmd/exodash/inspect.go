package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SeanBNU/exoplanet-data-dashboard/dataset"
)

// inspectCmd prints a per-column summary of a dataset.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarise the columns of a dataset",
	Long: `Load a CSV dataset and print each column's inferred kind, numeric range
and number of missing values.

Use it to check how a file will be read before serving it: a column that
should be numeric but shows up as "string" contains a value that is not a
number.

Example:
  exodash inspect --data exoplanets.csv`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("data", "d", "", "path to the CSV dataset (required)")
	_ = inspectCmd.MarkFlagRequired("data")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("data")
	if path == "" {
		return errors.New("--data is required")
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d rows, %d columns\n\n",
		headingStyle.Render(filepath.Base(path)+":"), ds.Len(), len(ds.Columns()))

	nameWidth := len("COLUMN")
	for _, c := range ds.Columns() {
		nameWidth = max(nameWidth, len(c.Name))
	}
	nameWidth += 2

	fmt.Fprintln(out, headingStyle.Render(
		cell("COLUMN", nameWidth)+cell("KIND", 9)+cell("MIN", 14)+cell("MAX", 14)+"MISSING"))

	for _, c := range ds.Columns() {
		lo, hi := "-", "-"
		if l, h, ok := ds.Range(c.Name); ok {
			lo, hi = formatFloat(l), formatFloat(h)
		}
		missing := strconv.Itoa(ds.Missing(c.Name))
		if ds.Missing(c.Name) == ds.Len() {
			missing = mutedStyle.Render(missing + " (all)")
		}
		fmt.Fprintln(out, cell(c.Name, nameWidth)+cell(c.Kind.String(), 9)+cell(lo, 14)+cell(hi, 14)+missing)
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
