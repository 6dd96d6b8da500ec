// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/arxiv"
	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, filter, and mail the digest in one pass",
	Long: `Run executes the whole pipeline: fetch from arXiv, filter by relevance,
and mail the newsletter. Fetch and delivery are retried with backoff.

With --every the pipeline runs immediately and then on that interval until
interrupted. With --daemon the interval comes from schedule.interval.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Duration("every", 0, "repeat the run on this interval")
	runCmd.Flags().Bool("daemon", false, "repeat the run on schedule.interval")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	every, _ := cmd.Flags().GetDuration("every")
	daemon, _ := cmd.Flags().GetBool("daemon")

	fetchCfg := pipelineCfg.Fetch
	client := arxiv.NewClient(fetchCfg, lgr.Std)
	q := arxiv.QueryFromConfig(fetchCfg)
	fetcher := pipeline.FetcherFunc(func(ctx context.Context) ([]paper.Record, error) {
		return client.Search(ctx, q)
	})

	p := pipeline.New(fetcher, newMailer(), pipelineCfg, lgr.Std)

	if every > 0 || daemon {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		p.RunEvery(ctx, every)
		return nil
	}

	rep, err := p.Run(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d papers: %s\n", rep.Fetched, describeStats(rep.Stats))
	if err != nil {
		return err
	}
	if rep.Sent {
		fmt.Fprintf(cmd.OutOrStdout(), "Sent newsletter with %d papers\n", len(rep.Digest))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No papers passed the filter; nothing sent")
	}
	return nil
}
