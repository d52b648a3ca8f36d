package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hupe1980/debatemesh/internal/util"
	"github.com/hupe1980/debatemesh/logging"
	"github.com/hupe1980/debatemesh/model"
)

// Provider is the narrow contract debaters consume: one topic in, one
// synthesized report out.
type Provider interface {
	Research(ctx context.Context, topic string) (string, error)
}

const decomposeTemplate = `## TOPIC
{{.Topic}}

## TASK
Break the topic down into up to {{.Count}} concrete web search queries that together
cover its factual background. Respond with the queries only, one per line.`

const summarizeTemplate = `## QUERY
{{.Query}}

## PAGE CONTENT
{{.Content}}

## TASK
Summarize the page content as it relates to the query. Keep concrete facts,
statistics and named sources; drop navigation, ads and boilerplate. If the
content is irrelevant to the query, respond with NOT RELEVANT.`

const synthesizeTemplate = `## TOPIC
{{.Topic}}

## COLLECTED SUMMARIES
{{.Summaries}}

## TASK
Write a concise research report on the topic based on the collected summaries.
Organize it by finding, keep every statistic you can attribute, and cite
sources inline using [Source: URL or description] format.`

// Options configure the Researcher pipeline bounds.
type Options struct {
	// SubQueries caps topic decomposition.
	SubQueries int
	// LinksPerQuery caps link discovery per sub-query.
	LinksPerQuery int
	// MaxSources caps fetched pages across all sub-queries.
	MaxSources int
	// FetchBytes caps raw payload read per page.
	FetchBytes int64
	// ContentChars caps page text handed to the summarization prompt.
	ContentChars int
	// HTTPClient fetches pages.
	HTTPClient *http.Client
	// Logger receives degradation diagnostics.
	Logger logging.Logger
}

// Researcher implements Provider as a three-stage pipeline: collect links,
// browse and summarize, synthesize. The stage bounds mirror the debate
// format: at most 2 sub-queries, 2 links each, 4 fetched sources total.
type Researcher struct {
	llm    model.Model
	search SearchClient
	opts   Options
}

// NewResearcher creates a Researcher with the default bounds.
func NewResearcher(llm model.Model, search SearchClient, optFns ...func(o *Options)) *Researcher {
	opts := Options{
		SubQueries:    2,
		LinksPerQuery: 2,
		MaxSources:    4,
		FetchBytes:    512 << 10,
		ContentChars:  8000,
		HTTPClient:    http.DefaultClient,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Researcher{llm: llm, search: search, opts: opts}
}

// Research implements Provider. Stage failures shrink the report instead of
// aborting: a failed decomposition falls back to the raw topic, failed
// searches and fetches skip the source, and a failed synthesis returns the
// raw summaries. An error is returned only when nothing at all was gathered.
func (r *Researcher) Research(ctx context.Context, topic string) (string, error) {
	queries := r.decompose(ctx, topic)

	summaries := r.collectSummaries(ctx, queries)
	if len(summaries) == 0 {
		return "", fmt.Errorf("no sources could be gathered for %q", topic)
	}

	return r.synthesize(ctx, topic, summaries), nil
}

// decompose turns the topic into bounded sub-queries, falling back to the
// topic itself when generation fails or produces nothing.
func (r *Researcher) decompose(ctx context.Context, topic string) []string {
	prompt, err := util.RenderTemplate(decomposeTemplate, map[string]any{
		"Topic": topic,
		"Count": r.opts.SubQueries,
	})
	if err != nil {
		return []string{topic}
	}

	resp, err := r.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		r.opts.Logger.Warn("query decomposition failed, using topic verbatim", "error", err)
		return []string{topic}
	}

	var queries []string
	for _, line := range strings.Split(resp.Text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		queries = append(queries, line)
		if len(queries) >= r.opts.SubQueries {
			break
		}
	}
	if len(queries) == 0 {
		return []string{topic}
	}
	return queries
}

// collectSummaries runs link discovery and page summarization under the
// global source cap.
func (r *Researcher) collectSummaries(ctx context.Context, queries []string) []string {
	var summaries []string
	sources := 0

	for _, query := range queries {
		if sources >= r.opts.MaxSources {
			break
		}
		links, err := r.search.Search(ctx, query, r.opts.LinksPerQuery)
		if err != nil {
			r.opts.Logger.Warn("link discovery failed", "query", query, "error", err)
			continue
		}
		for _, link := range links {
			if sources >= r.opts.MaxSources {
				break
			}
			sources++
			summary, err := r.summarizePage(ctx, query, link)
			if err != nil {
				r.opts.Logger.Warn("source skipped", "url", link.URL, "error", err)
				continue
			}
			if summary != "" {
				summaries = append(summaries, summary)
			}
		}
	}
	return summaries
}

// summarizePage fetches one source and reduces it to a query-focused summary.
func (r *Researcher) summarizePage(ctx context.Context, query string, link Link) (string, error) {
	text, err := fetchPage(ctx, r.opts.HTTPClient, link.URL, r.opts.FetchBytes)
	if err != nil {
		return "", err
	}
	if len(text) > r.opts.ContentChars {
		text = text[:r.opts.ContentChars]
	}

	prompt, err := util.RenderTemplate(summarizeTemplate, map[string]any{
		"Query":   query,
		"Content": text,
	})
	if err != nil {
		return "", err
	}

	resp, err := r.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(resp.Text)
	if summary == "" || strings.EqualFold(summary, "NOT RELEVANT") {
		return "", nil
	}
	return fmt.Sprintf("%s\n[Source: %s]", summary, link.URL), nil
}

// synthesize reduces the summaries into one report, degrading to the raw
// summaries when generation fails.
func (r *Researcher) synthesize(ctx context.Context, topic string, summaries []string) string {
	joined := strings.Join(summaries, "\n---\n")

	prompt, err := util.RenderTemplate(synthesizeTemplate, map[string]any{
		"Topic":     topic,
		"Summaries": joined,
	})
	if err != nil {
		return joined
	}

	resp, err := r.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		r.opts.Logger.Warn("report synthesis failed, returning raw summaries", "error", err)
		return joined
	}
	return resp.Text
}
