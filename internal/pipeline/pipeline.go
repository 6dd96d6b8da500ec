// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes fetch, relevance filtering, and newsletter
// delivery into one run, and repeats that run on a fixed interval.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/pdiddy/arxiv-digest/internal/newsletter"
	"github.com/pdiddy/arxiv-digest/internal/paper"
	"github.com/pdiddy/arxiv-digest/internal/relevance"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Fetcher returns the candidate papers for one run.
type Fetcher interface {
	Fetch(ctx context.Context) ([]paper.Record, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]paper.Record, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) ([]paper.Record, error) { return f(ctx) }

// Validator is implemented by senders that can check their settings before
// anything is fetched.
type Validator interface {
	Validate(recipients []string) error
}

// Report summarizes one run.
type Report struct {
	Fetched int
	Stats   relevance.Stats
	Digest  []types.FilteredRecord
	// Sent is false when delivery was skipped for an empty digest.
	Sent bool
}

// Pipeline wires the stages together. Fetcher and Sender are required.
type Pipeline struct {
	Fetcher    Fetcher
	Sender     newsletter.Sender
	Relevance  types.RelevanceConfig
	Recipients []string
	Schedule   types.ScheduleConfig
	Log        lgr.L

	// now is the filter clock; nil means time.Now.
	now func() time.Time
}

// New returns a Pipeline built from cfg.
func New(fetcher Fetcher, sender newsletter.Sender, cfg types.PipelineConfig, log lgr.L) *Pipeline {
	if log == nil {
		log = lgr.NoOp
	}
	return &Pipeline{
		Fetcher:    fetcher,
		Sender:     sender,
		Relevance:  cfg.Relevance,
		Recipients: cfg.Mail.Recipients,
		Schedule:   cfg.Schedule,
		Log:        log,
	}
}

// Run performs one fetch, filter, deliver cycle. Fetch and delivery are
// retried with exponential backoff; filtering is deterministic and runs once.
// Delivery settings are validated before fetching, and errors wrapping
// newsletter.ErrInvalidConfig are never retried.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	var rep Report
	log := p.logger()

	if p.Fetcher == nil || p.Sender == nil {
		return rep, fmt.Errorf("pipeline requires a fetcher and a sender")
	}
	if v, ok := p.Sender.(Validator); ok {
		if err := v.Validate(p.Recipients); err != nil {
			return rep, fmt.Errorf("delivery settings: %w", err)
		}
	}

	var papers []paper.Record
	err := p.retry(ctx, func() error {
		var ferr error
		papers, ferr = p.Fetcher.Fetch(ctx)
		if ferr != nil {
			log.Logf("[WARN] fetch failed: %v", ferr)
		}
		return ferr
	})
	if err != nil {
		return rep, fmt.Errorf("fetching papers: %w", err)
	}
	rep.Fetched = len(papers)
	log.Logf("[INFO] fetched %d papers", rep.Fetched)

	opts := []relevance.Option{relevance.WithLogger(log)}
	if p.now != nil {
		opts = append(opts, relevance.WithClock(p.now))
	}
	cfg := p.Relevance
	rep.Digest, rep.Stats = relevance.FilterWithStats(papers, &cfg, opts...)

	if len(rep.Digest) == 0 && !p.Schedule.SendEmpty {
		log.Logf("[INFO] no papers passed the filter, skipping delivery")
		return rep, nil
	}

	err = p.retry(ctx, func() error {
		serr := p.Sender.Send(ctx, rep.Digest, p.Recipients)
		if serr != nil {
			log.Logf("[WARN] delivery failed: %v", serr)
		}
		return serr
	})
	if err != nil {
		return rep, fmt.Errorf("delivering newsletter: %w", err)
	}
	rep.Sent = true
	log.Logf("[INFO] newsletter with %d papers sent to %d recipients", len(rep.Digest), len(p.Recipients))
	return rep, nil
}

// RunEvery runs the pipeline immediately and then every interval until ctx
// is cancelled. Run errors are logged and do not stop the loop. A zero
// interval selects Schedule.Interval.
func (p *Pipeline) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = p.Schedule.Interval
	}
	if interval <= 0 {
		interval = types.DefaultPipelineConfig().Schedule.Interval
	}
	log := p.logger()
	log.Logf("[INFO] scheduler started with interval %v", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Logf("[INFO] scheduler stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Pipeline) runOnce(ctx context.Context) {
	if _, err := p.Run(ctx); err != nil {
		p.logger().Logf("[ERROR] pipeline run failed: %v", err)
	}
}

// retry calls fn up to Schedule.Attempts times with exponential backoff.
// An error wrapping newsletter.ErrInvalidConfig stops the attempts at once.
func (p *Pipeline) retry(ctx context.Context, fn func() error) error {
	attempts := p.Schedule.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := p.Schedule.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	var permanent error
	err := repeater.NewBackoff(attempts, delay, repeater.WithMaxDelay(10*delay)).Do(ctx, func() error {
		ferr := fn()
		if errors.Is(ferr, newsletter.ErrInvalidConfig) {
			permanent = ferr
			return nil
		}
		return ferr
	})
	if permanent != nil {
		return permanent
	}
	return err
}

func (p *Pipeline) logger() lgr.L {
	if p.Log == nil {
		return lgr.NoOp
	}
	return p.Log
}
