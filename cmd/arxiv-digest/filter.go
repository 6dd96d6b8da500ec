// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/arxiv"
	"github.com/pdiddy/arxiv-digest/internal/newsletter"
	"github.com/pdiddy/arxiv-digest/internal/relevance"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Score a snapshot against the relevance profile",
	Long: `Filter reads a snapshot written by fetch, drops stale, excluded, and
off-category papers, scores the rest by keyword hits, and prints the survivors
ranked by score and recency.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("in", "arxiv-snapshot.yaml", "snapshot file to read")
	filterCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	asJSON, _ := cmd.Flags().GetBool("json")

	digest, err := filterSnapshot(in)
	if err != nil {
		return err
	}

	if asJSON {
		return newsletter.FormatJSON(digest, cmd.OutOrStdout())
	}
	newsletter.FormatTable(digest, cmd.OutOrStdout())
	return nil
}

// filterSnapshot loads a snapshot and applies the configured relevance profile.
func filterSnapshot(path string) ([]types.FilteredRecord, error) {
	snap, err := arxiv.ReadSnapshot(path)
	if err != nil {
		return nil, err
	}

	cfg := pipelineCfg.Relevance
	digest, stats := relevance.FilterWithStats(snap.Records(), &cfg, relevance.WithLogger(lgr.Std))
	lgr.Printf("[DEBUG] filter stats for %s: %+v", path, stats)
	if stats.Failed > 0 {
		lgr.Printf("[WARN] %d malformed entries in %s were skipped", stats.Failed, path)
	}
	return digest, nil
}

// describeStats renders filter counters for human output.
func describeStats(s relevance.Stats) string {
	return fmt.Sprintf("%d total, %d kept (stale %d, rejected %d, below threshold %d, failed %d)",
		s.Total, s.Kept, s.Stale, s.Rejected, s.BelowThreshold, s.Failed)
}
