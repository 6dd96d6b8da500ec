// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig holds settings for the arXiv fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Categories are OR-ed into the arXiv search_query (e.g. "cat:cs.AI OR cat:cs.LG").
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// MaxResults caps the number of entries fetched per run (default 200).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// PageSize is the number of entries requested per API call (default 100).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// PageDelay is the pause between consecutive page requests (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay" mapstructure:"page_delay"`

	// SortBy is the arXiv sort field: relevance, lastUpdatedDate, or submittedDate.
	SortBy string `json:"sort_by" yaml:"sort_by" mapstructure:"sort_by"`

	// SortOrder is ascending or descending.
	SortOrder string `json:"sort_order" yaml:"sort_order" mapstructure:"sort_order"`
}

// RelevanceConfig controls how the filter scores and admits papers. It is a
// value type: Normalize returns a new instance and never touches the receiver.
type RelevanceConfig struct {
	// Days is the recency window; papers published before now-Days are dropped.
	Days int `json:"days" yaml:"days" mapstructure:"days"`

	// MinScore is the lowest score admitted into the digest.
	MinScore int `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// TitleBoost is the weight of a keyword hit in the title.
	TitleBoost int `json:"title_boost" yaml:"title_boost" mapstructure:"title_boost"`

	// Keywords score positively when found in title, summary, or authors.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// NegKeywords reject a paper outright when found anywhere in its text.
	NegKeywords []string `json:"neg_keywords" yaml:"neg_keywords" mapstructure:"neg_keywords"`

	// CategoryWhitelist restricts papers to these codes or their families.
	// Empty means no category filtering.
	CategoryWhitelist []string `json:"category_whitelist" yaml:"category_whitelist" mapstructure:"category_whitelist"`
}

// Normalize returns a copy with keywords and negative keywords lower-cased.
// The receiver's slices are never written to.
func (c RelevanceConfig) Normalize() RelevanceConfig {
	out := c
	out.Keywords = lowerAll(c.Keywords)
	out.NegKeywords = lowerAll(c.NegKeywords)
	out.CategoryWhitelist = append([]string(nil), c.CategoryWhitelist...)
	return out
}

func lowerAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// DefaultRelevanceConfig returns the baked-in topical profile.
func DefaultRelevanceConfig() RelevanceConfig {
	return RelevanceConfig{
		Days:       30,
		MinScore:   2,
		TitleBoost: 2,
		Keywords: []string{
			"LLM", "agent", "RAG", "retrieval", "multimodal", "foundation model",
			"embedding", "vector", "self-play", "planning", "MCTS", "AEC", "BIM",
			"construction", "digital twin", "robotics", "supply chain",
			"protein", "genomic", "single-cell", "drug discovery", "biology",
			"biodesign", "diffusion", "fintech", "credit", "fraud", "risk",
			"payments", "markets", "regtech",
		},
		NegKeywords: []string{
			"quantum gravity", "black hole", "cosmology",
			"algebraic topology", "category theory", "number theory",
		},
		CategoryWhitelist: []string{
			"cs.LG", "cs.AI", "cs.CL", "cs.CV", "cs.CE",
			"cs.CR", "cs.CY", "cs.ET", "cs.GL", "cs.LG",
			"cs.MA", "cs.SE", "econ.GN", "q-fin.EC", "stat.ML",
		},
	}
}

// MailConfig holds SMTP submission settings for newsletter delivery.
// Credentials are not part of it; they come from the secrets directory.
type MailConfig struct {
	// Host is the SMTP submission server (default smtp.gmail.com).
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// Port is the submission port (default 587, STARTTLS).
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// From is the envelope and header sender address.
	From string `json:"from" yaml:"from" mapstructure:"from"`

	// Subject is the newsletter subject line.
	Subject string `json:"subject" yaml:"subject" mapstructure:"subject"`

	// Recipients lists the newsletter addresses.
	Recipients []string `json:"recipients" yaml:"recipients" mapstructure:"recipients"`

	// Timeout bounds dialing and sending.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ScheduleConfig holds settings for the pipeline harness.
type ScheduleConfig struct {
	// Interval between runs when running as a daemon (default 24h).
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`

	// Attempts is how many times the fetch and deliver steps are tried (default 3).
	Attempts int `json:"attempts" yaml:"attempts" mapstructure:"attempts"`

	// RetryDelay is the initial backoff between attempts (default 30s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// SendEmpty delivers a newsletter even when no paper survives filtering.
	SendEmpty bool `json:"send_empty" yaml:"send_empty" mapstructure:"send_empty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Relevance RelevanceConfig `json:"relevance" yaml:"relevance" mapstructure:"relevance"`
	Mail      MailConfig      `json:"mail" yaml:"mail" mapstructure:"mail"`
	Schedule  ScheduleConfig  `json:"schedule" yaml:"schedule" mapstructure:"schedule"`
}

// DefaultPipelineConfig returns the configuration used when no config file
// overrides a setting.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   60 * time.Second,
				UserAgent: "arxiv-digest/0.1",
			},
			Categories: []string{
				"cs.AI", "cs.CE", "cs.CR", "cs.CY", "cs.ET", "cs.GL",
				"cs.LG", "cs.MA", "cs.SE", "econ.GN", "q-fin.EC", "stat.ML",
			},
			MaxResults: 200,
			PageSize:   100,
			PageDelay:  3 * time.Second,
			SortBy:     "lastUpdatedDate",
			SortOrder:  "descending",
		},
		Relevance: DefaultRelevanceConfig(),
		Mail: MailConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			From:    "you@example.com",
			Subject: "The arXiv Digester",
			Timeout: 30 * time.Second,
		},
		Schedule: ScheduleConfig{
			Interval:   24 * time.Hour,
			Attempts:   3,
			RetryDelay: 30 * time.Second,
		},
	}
}
