// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-digest CLI.
// Each pipeline stage is a subcommand: fetch, filter, send, and run.
package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/internal/secrets"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds SMTP credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Store

// pipelineCfg is the merged configuration: defaults, config file, environment, flags.
var pipelineCfg types.PipelineConfig

// rootCmd is the base command for the arxiv-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-digest",
	Short: "Fetch, filter, and mail a daily digest of relevant arXiv papers",
	Long: `arxiv-digest queries the arXiv API for recent papers in a set of categories,
scores them against a keyword relevance profile, and mails the survivors as an
HTML newsletter.

Stages can be run one at a time (fetch, filter, send) against a YAML snapshot,
or end to end with run, optionally on a fixed interval.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s

		dbg, _ := cmd.Flags().GetBool("dbg")
		setupLog(cmd.ErrOrStderr(), dbg, s.Values()...)
		if len(s) > 0 {
			lgr.Printf("[INFO] loaded secrets: %v", s.Keys())
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		pipelineCfg = cfg
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./arxiv-digest.yaml or ~/.config/arxiv-digest/config.yaml)")
	pf.String("secrets-dir", ".secrets/", "directory holding smtp-user and smtp-pass files")
	pf.Bool("dbg", false, "debug logging")
	pf.Int("days", 0, "recency window in days (overrides relevance.days)")
	pf.Int("min-score", 0, "minimum relevance score (overrides relevance.min_score)")
	pf.Int("max-results", 0, "maximum papers to fetch (overrides fetch.max_results)")
	pf.StringSlice("to", nil, "newsletter recipients (overrides mail.recipients)")

	bindFlag("relevance.days", "days")
	bindFlag("relevance.min_score", "min-score")
	bindFlag("fetch.max_results", "max-results")
	bindFlag("mail.recipients", "to")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// setupLog configures the global lgr logger. Secret values are masked in output.
func setupLog(w io.Writer, dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(w), lgr.Err(w)}
	if dbg {
		logOpts = append(logOpts, lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.CallerFile)
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
