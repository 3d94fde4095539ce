package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/sentinelle/internal/engine"
)

// StampLayout formats the run timestamp carried by artifact filenames.
const StampLayout = "2006-01-02 150405"

// CSVSink writes report artifacts into a directory. Only the filename
// carries the run timestamp; the body never does, so re-running an
// unchanged tree yields byte-identical files.
type CSVSink struct {
	Dir   string
	Stamp string
}

// NewCSVSink creates a sink writing into dir, stamping filenames with at.
func NewCSVSink(dir string, at time.Time) *CSVSink {
	return &CSVSink{Dir: dir, Stamp: at.Format(StampLayout)}
}

// Artifacts lists the files a sink produced.
type Artifacts struct {
	ReportPath     string
	DuplicatesPath string // empty when no duplicate groups exist
}

// Write renders the result into CSV artifacts at the given tier. The
// duplicates file is only created when at least one group was found.
func (s *CSVSink) Write(result *engine.ScanResult, tier Tier) (*Artifacts, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := &Artifacts{
		ReportPath: filepath.Join(s.Dir, s.Stamp+"_report.csv"),
	}
	if err := writeFile(artifacts.ReportPath, func(w io.Writer) error {
		return writeReportCSV(w, result, tier)
	}); err != nil {
		return nil, err
	}

	if len(result.Duplicates) > 0 {
		artifacts.DuplicatesPath = filepath.Join(s.Dir, s.Stamp+"_duplicates.csv")
		if err := writeFile(artifacts.DuplicatesPath, func(w io.Writer) error {
			return writeDuplicatesCSV(w, result.Duplicates)
		}); err != nil {
			return nil, err
		}
	}

	return artifacts, nil
}

// writeFile creates path and hands it to write, surfacing close errors.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeReportCSV writes the verdict records and the trailing summary rows.
func writeReportCSV(w io.Writer, result *engine.ScanResult, tier Tier) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	// Write header
	header := []string{"path", "depth", "kind", "conformant", "reason"}
	if tier >= TierDetailed {
		header = append(header, "rule")
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write verdict rows in traversal order
	for _, v := range Filter(result.Verdicts, tier) {
		row := []string{
			v.Path,
			strconv.Itoa(v.Depth),
			v.Kind.String(),
			strconv.FormatBool(v.Conformant),
			v.Reason,
		}
		if tier >= TierDetailed {
			row = append(row, v.RuleID)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Trailing summary rows carry counters only, never wall-clock values.
	sum := result.Summary
	summaryRows := [][]string{
		{"summary", "root", sum.Root},
		{"summary", "max_depth", strconv.Itoa(sum.MaxDepth)},
		{"summary", "visited", strconv.Itoa(sum.Visited)},
		{"summary", "conformant", strconv.Itoa(sum.Conformant)},
		{"summary", "non_conformant", strconv.Itoa(sum.NonConformant)},
		{"summary", "unreadable", strconv.Itoa(sum.Unreadable)},
		{"summary", "duplicate_groups", strconv.Itoa(sum.DuplicateGroups)},
		{"summary", "incomplete", strconv.FormatBool(sum.Incomplete)},
	}
	for _, row := range summaryRows {
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeDuplicatesCSV writes one row per duplicate group.
func writeDuplicatesCSV(w io.Writer, groups []engine.DuplicateGroup) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write([]string{"hash", "paths"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, g := range groups {
		row := []string{g.Hash, strings.Join(g.Paths, ";")}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
