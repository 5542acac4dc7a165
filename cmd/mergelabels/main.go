// Command mergelabels attaches reviewer labels to an audit day-file.
//
//	mergelabels calib/2024-03-01.csv labels.csv > labeled.csv
package main

import (
	"fmt"
	"log/slog"
	"os"

	"verigate/internal/calibration/labels"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: mergelabels <log_csv> <labels_csv>")
		os.Exit(2)
	}

	logFile, err := os.Open(os.Args[1])
	if err != nil {
		logger.Error("failed to open audit log", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()
	labelFile, err := os.Open(os.Args[2])
	if err != nil {
		logger.Error("failed to open labels", "error", err)
		os.Exit(1)
	}
	defer labelFile.Close()

	stats, err := labels.Merge(logFile, labelFile, os.Stdout)
	if err != nil {
		logger.Error("merge failed", "error", err)
		os.Exit(1)
	}
	logger.Info("labels merged",
		"records", stats.Records,
		"labeled", stats.Labeled,
		"unrecognized_labels", stats.Unrecognized,
		"invalid_cells", stats.InvalidCells,
	)
}
