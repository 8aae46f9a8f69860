// Standalone generator of a synthetic catalogue for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/samplegen -o sample.csv
//
// Then:
//
//	go run ./cmd/exodash serve --data sample.csv
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/SeanBNU/exoplanet-data-dashboard/example/catalogue"
)

func main() {
	out := flag.StringP("out", "o", "sample.csv", "output file")
	n := flag.IntP("count", "n", 1500, "number of planets")
	seed := flag.Int64("seed", 2024, "random seed")
	flag.Parse()

	data, err := catalogue.Generate(*n, *seed)
	if err != nil {
		slog.Error("failed to generate catalogue", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		slog.Error("failed to write catalogue", "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d planets to %s\n", *n, *out)
}
