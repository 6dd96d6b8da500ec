// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/newsletter"
	"github.com/pdiddy/arxiv-digest/internal/secrets"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Filter a snapshot and mail the digest",
	Long: `Send filters a snapshot written by fetch and mails the surviving papers
as an HTML newsletter to the configured recipients. SMTP credentials are read
from the smtp-user and smtp-pass secrets.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().String("in", "arxiv-snapshot.yaml", "snapshot file to read")
	sendCmd.Flags().Bool("dry-run", false, "print the newsletter HTML instead of sending it")

	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	digest, err := filterSnapshot(in)
	if err != nil {
		return err
	}

	if dryRun {
		html, err := newsletter.Render(digest)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), html)
		return nil
	}

	recipients := pipelineCfg.Mail.Recipients
	if err := newMailer().Send(cmd.Context(), digest, recipients); err != nil {
		return err
	}
	lgr.Printf("[INFO] newsletter with %d papers sent to %d recipients", len(digest), len(recipients))
	return nil
}

// newMailer builds the SMTP mailer from config and loaded secrets.
func newMailer() *newsletter.Mailer {
	return newsletter.NewMailer(pipelineCfg.Mail, newsletter.Credentials{
		Username: loadedSecrets.Get(secrets.SMTPUser),
		Password: loadedSecrets.Get(secrets.SMTPPass),
	})
}
