// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/arxiv"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent papers from arXiv into a snapshot file",
	Long: `Fetch queries the arXiv API for the configured categories, sorted by
last update, and writes the raw entries to a YAML snapshot. The snapshot can
be filtered and sent later without re-querying arXiv.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("out", "arxiv-snapshot.yaml", "snapshot file to write")
	fetchCmd.Flags().StringSlice("categories", nil, "arXiv categories to query (overrides fetch.categories)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	cfg := pipelineCfg.Fetch
	if cats, _ := cmd.Flags().GetStringSlice("categories"); len(cats) > 0 {
		cfg.Categories = cats
	}

	client := arxiv.NewClient(cfg, lgr.Std)
	q := arxiv.QueryFromConfig(cfg)
	records, err := client.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	if err := arxiv.WriteSnapshot(out, arxiv.BuildQuery(q.Categories), records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d papers into %s\n", len(records), out)
	return nil
}
