package summarizer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fyerfyer/civic-doc-system/internal/document"
	"github.com/fyerfyer/civic-doc-system/internal/models"
	"github.com/sirupsen/logrus"
)

// OrchestratorConfig tuning for the chunked summarization pass.
type OrchestratorConfig struct {
	ChunkSize      int           // chunk size in characters, sized to the model's input budget
	MinInputLen    int           // texts shorter than this skip the model entirely
	MinChunkLen    int           // chunks shorter than this are not worth summarizing
	MinFragmentLen int           // model outputs shorter than this are discarded as noise
	Concurrency    int           // parallel chunk requests
	ChunkTimeout   time.Duration // per-chunk call timeout
	MaxOutputLen   int           // per-chunk generation cap in tokens
}

// DefaultOrchestratorConfig returns the default orchestration config.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		ChunkSize:      1000,
		MinInputLen:    200,
		MinChunkLen:    80,
		MinFragmentLen: 20,
		Concurrency:    3,
		ChunkTimeout:   90 * time.Second,
		MaxOutputLen:   256,
	}
}

// Orchestrator runs chunked summarization with a layered fallback
// chain. It never fails outward: every path ends in either a merged
// model summary or a truncated excerpt of the input, so total model
// unavailability can never block the pipeline.
type Orchestrator struct {
	client   Client            // nil means no summarizer is loaded, a recognized degraded mode
	splitter document.Splitter // text chunker
	config   OrchestratorConfig
	logger   *logrus.Logger
}

// NewOrchestrator creates an orchestrator. c may be nil when no
// summarizer is available; the orchestrator then always produces the
// excerpt fallback.
func NewOrchestrator(c Client, cfg OrchestratorConfig, logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.ChunkSize <= 0 {
		cfg = DefaultOrchestratorConfig()
	}
	return &Orchestrator{
		client: c,
		splitter: document.NewTextSplitter(document.SplitterConfig{
			ChunkSize:   cfg.ChunkSize,
			MinChunkLen: cfg.MinChunkLen,
		}),
		config: cfg,
		logger: logger,
	}
}

// Available reports whether an external summarizer is loaded.
func (o *Orchestrator) Available() bool {
	return o.client != nil
}

// Summarize produces a bounded-length summary of text. Always returns
// a non-empty string: chunk failures are skipped, and if no usable
// fragment survives the result is a truncated excerpt of the input.
func (o *Orchestrator) Summarize(ctx context.Context, text string) string {
	if !o.Available() || len(text) < o.config.MinInputLen {
		return o.fallback(text)
	}

	chunks, err := o.splitter.Split(text)
	if err != nil || len(chunks) == 0 {
		return o.fallback(text)
	}

	fragments := o.summarizeChunks(ctx, chunks)

	// merge surviving fragments in original chunk order
	var merged []string
	for _, frag := range fragments {
		if len(frag) >= o.config.MinFragmentLen {
			merged = append(merged, frag)
		}
	}

	if len(merged) == 0 {
		return o.fallback(text)
	}
	return strings.Join(merged, " ")
}

// summarizeChunks fans chunk requests out with bounded concurrency.
// The result slice is indexed by chunk position, so the merge order is
// the original chunk order regardless of completion order. A failed
// chunk leaves an empty slot rather than aborting the document.
func (o *Orchestrator) summarizeChunks(ctx context.Context, chunks []document.Content) []string {
	fragments := make([]string, len(chunks))

	concurrency := o.config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		if len(chunk.Text) < o.config.MinChunkLen {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, text string) {
			defer wg.Done()
			defer func() { <-sem }()

			callCtx, cancel := context.WithTimeout(ctx, o.config.ChunkTimeout)
			defer cancel()

			resp, err := o.client.Summarize(callCtx, text,
				WithSummarizeMaxOutputLen(o.config.MaxOutputLen))
			if err != nil {
				o.logger.WithFields(logrus.Fields{
					"chunk": idx,
					"error": err.Error(),
				}).Warn("Chunk summarization failed, skipping")
				return
			}

			fragments[idx] = strings.TrimSpace(resp.Text)
		}(i, chunk.Text)
	}
	wg.Wait()

	return fragments
}

// fallback the terminal fallback state: a truncated excerpt of the
// cleaned text. Cheap to compute and always well-defined.
func (o *Orchestrator) fallback(text string) string {
	excerpt := text
	if len(excerpt) > models.FallbackExcerptLen {
		excerpt = excerpt[:models.FallbackExcerptLen]
	}
	return excerpt + "..."
}
