// Package pipeline runs the receipt interpretation stages in order:
// structured reconciliation, heuristic text parse, prompt synthesis, model
// generation, response interpretation, confidence scoring and
// categorization. Each receipt is processed independently with no shared
// state, so one Pipeline value is safe for concurrent use.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/categorize"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
	"github.com/joseph-ayodele/receipt-extractor/internal/extract"
	"github.com/joseph-ayodele/receipt-extractor/internal/llm"
	"github.com/joseph-ayodele/receipt-extractor/internal/parser"
	"github.com/joseph-ayodele/receipt-extractor/internal/score"
)

// Config holds thresholds and behavior flags for the pipeline.
type Config struct {
	MinConfidence float32 // default 0.60; below it the receipt is flagged for review
}

type Pipeline struct {
	Logger *slog.Logger
	Cfg    Config

	// Generator is the generative-model collaborator. When nil the model
	// stage is skipped and the reconciled/heuristic candidate is final.
	Generator llm.TextGenerator

	// Now supplies "today" for missing-date defaults; injectable so tests
	// can fix time.
	Now func() time.Time
}

func New(logger *slog.Logger, cfg Config, gen llm.TextGenerator) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.60
	}
	return &Pipeline{
		Logger:    logger,
		Cfg:       cfg,
		Generator: gen,
		Now:       time.Now,
	}
}

// Process turns one raw extraction into a complete, scored, categorized
// ParsedReceipt. Parsing-stage problems never surface as errors; the only
// error returned is a generation-collaborator failure, which the caller
// owns (retry, fail the execution, or rerun without the model).
func (p *Pipeline) Process(ctx context.Context, raw entity.RawExtraction) (entity.ParsedReceipt, error) {
	start := p.Now()
	raw = extract.NormalizeKeys(raw)

	p.Logger.Info("pipeline.start",
		"summary_fields", len(raw.SummaryFields),
		"line_items", len(raw.LineItems),
		"text_bytes", len(raw.RawText),
	)

	// Candidate sources in preference order: typed structured fields, then
	// the heuristic text scan filling every gap.
	structured := parser.Reconcile(raw)
	heuristic := parser.ParseText(raw.RawText, start)
	receipt := parser.Merge(structured, heuristic.Receipt)
	receipt.StructuredFieldCount = len(raw.SummaryFields)
	receipt.StructuredItemCount = len(raw.LineItems)

	if p.Generator != nil {
		prompt := llm.BuildPrompt(raw)
		text, err := p.Generator.Generate(ctx, prompt)
		if err != nil {
			return entity.ParsedReceipt{}, fmt.Errorf("llm generate: %w", err)
		}
		receipt = llm.Interpret(text, raw, start, p.Logger)
	}

	today := start.Format(constants.DateLayout)
	receipt.Confidence = score.Score(receipt, raw, today)
	if receipt.Confidence < p.Cfg.MinConfidence {
		receipt.NeedsReview = true
	}

	receipt.Category = categorize.Merchant(receipt.Merchant)
	for i := range receipt.Items {
		receipt.Items[i].Category = categorize.Item(receipt.Items[i].Name)
	}

	p.Logger.Info("pipeline.ok",
		"merchant", receipt.Merchant,
		"date", receipt.TxDate,
		"total", receipt.Total,
		"items", len(receipt.Items),
		"category", receipt.Category,
		"confidence", receipt.Confidence,
		"needs_review", receipt.NeedsReview,
	)
	return receipt, nil
}
