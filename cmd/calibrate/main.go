// Command calibrate suggests per-segment thresholds from labeled audit records.
//
//	calibrate [-far 0.01] [-prefix APP] [-yaml-out overrides.yaml] calib/*.csv
//	calibrate -dsn postgres://... -day 2024-03-01
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"verigate/internal/calibration/engine"
	"verigate/internal/calibration/record"
	"verigate/internal/calibration/store"
)

func main() {
	far := flag.Float64("far", engine.DefaultTargetFAR, "target false-accept rate")
	prefix := flag.String("prefix", "APP", "threshold override key prefix")
	dsn := flag.String("dsn", "", "read records from Postgres instead of CSV files")
	day := flag.String("day", "", "UTC day to read from Postgres (YYYY-MM-DD)")
	yamlOut := flag.String("yaml-out", "", "write suggested overrides to this YAML file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *far <= 0 || *far >= 1 {
		logger.Error("far must be in (0,1)", "far", *far)
		os.Exit(2)
	}

	ctx := context.Background()
	records, err := load(ctx, logger, *dsn, *day, flag.Args())
	if err != nil {
		logger.Error("failed to load records", "error", err)
		os.Exit(1)
	}

	report := engine.Calibrate(records, *far)
	if err := report.WriteText(os.Stdout); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}
	if lines := report.OverrideLines(*prefix); len(lines) > 0 {
		fmt.Println("\nSuggested overrides (copy/paste what you need):")
		for _, l := range lines {
			fmt.Println(l)
		}
	}
	if *yamlOut != "" {
		if err := writeYAML(*yamlOut, report.OverrideMap(*prefix)); err != nil {
			logger.Error("failed to write overrides", "path", *yamlOut, "error", err)
			os.Exit(1)
		}
		logger.Info("overrides written", "path", *yamlOut)
	}
}

func load(ctx context.Context, logger *slog.Logger, dsn, day string, patterns []string) ([]record.Record, error) {
	if dsn != "" {
		return loadPostgres(ctx, dsn, day)
	}
	if len(patterns) == 0 {
		return nil, errors.New("no input files (usage: calibrate [flags] file.csv...)")
	}
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		files = append(files, matches...)
	}
	var out []record.Record
	for _, path := range files {
		recs, err := readFile(logger, path)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func readFile(logger *slog.Logger, path string) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := record.NewReader(f)
	if errors.Is(err, record.ErrEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if n := r.Invalid(); n > 0 {
		logger.Warn("invalid cells read as missing", "path", path, "cells", n)
	}
	return recs, nil
}

func loadPostgres(ctx context.Context, dsn, day string) ([]record.Record, error) {
	if day == "" {
		return nil, errors.New("-day is required with -dsn")
	}
	d, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return nil, fmt.Errorf("parse -day: %w", err)
	}
	db, err := store.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return store.NewPostgres(db).ListDay(ctx, d)
}

func writeYAML(path string, overrides map[string]float64) error {
	data, err := yaml.Marshal(overrides)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
