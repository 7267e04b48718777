// Package pipeline runs one biosketch through the checker: text extraction,
// optional enhancement, rule validation, publication harvest and draft
// reconstruction. The enhancer is the only step that may fail softly; its
// errors are logged and the unenhanced input is used instead.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/biosketch-checker/internal/enhance"
	"github.com/jonathan/biosketch-checker/internal/ingestion"
	"github.com/jonathan/biosketch-checker/internal/parsing"
	"github.com/jonathan/biosketch-checker/internal/rendering"
	"github.com/jonathan/biosketch-checker/internal/types"
	"github.com/jonathan/biosketch-checker/internal/validation"
)

// Stage names reported to progress callbacks and logs.
const (
	StageIngest       = "ingest"
	StageHeadings     = "enhance_headings"
	StageValidate     = "validate"
	StagePublications = "harvest_publications"
	StagePayload      = "extract_payload"
	StageDraft        = "reconstruct_draft"
)

// ProgressEvent reports a finished stage.
type ProgressEvent struct {
	Stage    string        `json:"stage"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// ProgressCallback is called after each stage. The publication and payload
// stages run concurrently, so it must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// Options configure a Processor.
type Options struct {
	// Template is required.
	Template *types.TemplateConfig
	// Enhancer defaults to enhance.Noop.
	Enhancer   enhance.Enhancer
	Logger     *zap.Logger
	OnProgress ProgressCallback
	// Now defaults to time.Now.
	Now func() time.Time
}

// Input is one document. When Data is set it is extracted according to
// Filename; otherwise Text is used as already-extracted text.
type Input struct {
	Filename string
	Data     []byte
	Text     string
	// OnProgress receives this document's events after Options.OnProgress.
	OnProgress ProgressCallback
}

// Processor runs documents through the pipeline. It is safe for concurrent
// use when its Enhancer is.
type Processor struct {
	engine     *validation.Engine
	enhancer   enhance.Enhancer
	logger     *zap.Logger
	onProgress ProgressCallback
	now        func() time.Time
}

// New creates a Processor.
func New(opts Options) (*Processor, error) {
	if opts.Template == nil {
		return nil, errors.New("pipeline: template is required")
	}
	p := &Processor{
		engine:     validation.NewEngine(opts.Template),
		enhancer:   opts.Enhancer,
		logger:     opts.Logger,
		onProgress: opts.OnProgress,
		now:        opts.Now,
	}
	if p.enhancer == nil {
		p.enhancer = enhance.Noop{}
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Template returns the template documents are validated against.
func (p *Processor) Template() *types.TemplateConfig {
	return p.engine.Template()
}

// stageReporter logs finished stages and forwards them to both callbacks.
type stageReporter struct {
	logger    *zap.Logger
	callbacks []ProgressCallback
}

func (p *Processor) reporter(extra ProgressCallback) *stageReporter {
	r := &stageReporter{logger: p.logger}
	for _, cb := range []ProgressCallback{p.onProgress, extra} {
		if cb != nil {
			r.callbacks = append(r.callbacks, cb)
		}
	}
	return r
}

func (r *stageReporter) done(name string, started time.Time, message string, fields ...zap.Field) {
	elapsed := time.Since(started)
	r.logger.Debug("stage finished",
		append([]zap.Field{zap.String("stage", name), zap.Duration("duration", elapsed)}, fields...)...)
	event := ProgressEvent{Stage: name, Message: message, Duration: elapsed}
	for _, cb := range r.callbacks {
		cb(event)
	}
}

// Process runs one document through every stage and returns its report.
// Errors are boundary failures: unsupported or unreadable input, a
// cancelled context, or a draft that could not be rendered.
func (p *Processor) Process(ctx context.Context, in Input) (*types.ValidationResult, error) {
	stages := p.reporter(in.OnProgress)
	started := time.Now()
	text := ingestion.CleanText(in.Text)
	lowConfidence := false
	if in.Data != nil {
		extracted, err := ingestion.Extract(in.Filename, in.Data)
		if err != nil {
			return nil, fmt.Errorf("ingesting %s: %w", in.Filename, err)
		}
		text = extracted.Text
		lowConfidence = extracted.LowConfidence
	}
	documentHash := ingestion.DocumentHash(text)
	stages.done(StageIngest, started, fmt.Sprintf("extracted %d characters", len(text)),
		zap.String("source", in.Filename), zap.Bool("low_confidence", lowConfidence))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = time.Now()
	enhanced := text
	if p.enhancer.Enabled() {
		rewritten, err := p.enhancer.EnhanceHeadings(ctx, text)
		switch {
		case err != nil:
			p.logger.Warn("heading enhancement failed, using extracted text", zap.Error(err))
		default:
			enhanced = rewritten
		}
		stages.done(StageHeadings, started, "headings normalized")
	}

	started = time.Now()
	result := p.engine.Validate(enhanced)
	stages.done(StageValidate, started, fmt.Sprintf("%d issues", len(result.Issues)),
		zap.Int("sections", len(result.DetectedSections)), zap.Bool("preflight_failed", result.PreflightFailed))

	var publications []types.Publication
	var payload *types.StructuredPayload

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		blocks := PublicationBlocks(result.DetectedSections)
		if p.enhancer.Enabled() && len(blocks) > 0 {
			cleaned, err := p.enhancer.EnhanceCitations(gCtx, blocks)
			if err != nil {
				p.logger.Warn("citation enhancement failed, using extracted blocks", zap.Error(err))
			} else {
				blocks = cleaned
			}
		}
		publications = parsing.ParseCitations(strings.Join(blocks, "\n\n"))
		stages.done(StagePublications, started, fmt.Sprintf("%d publications", len(publications)))
		return gCtx.Err()
	})
	if p.enhancer.Enabled() {
		g.Go(func() error {
			started := time.Now()
			extracted, err := p.enhancer.ExtractStructured(gCtx, enhanced)
			if err != nil {
				p.logger.Warn("structured extraction failed, using heuristics only", zap.Error(err))
				extracted = nil
			}
			payload = extracted
			stages.done(StagePayload, started, "structured payload extracted", zap.Bool("present", payload != nil))
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	started = time.Now()
	draft, err := rendering.Reconstruct(rendering.Input{
		Sections: result.DetectedSections,
		Template: p.engine.Template(),
		Data:     result.BiosketchData,
		Payload:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("reconstructing draft: %w", err)
	}
	stages.done(StageDraft, started, "draft reconstructed")

	if publications == nil {
		publications = []types.Publication{}
	}
	template := p.engine.Template()
	report := &types.ValidationResult{
		ID:                     uuid.New(),
		OverallStatus:          result.Status(),
		Issues:                 result.Issues,
		DetectedSections:       result.DetectedSections,
		BiosketchData:          result.BiosketchData,
		Publications:           publications,
		CorrectedDraftMarkdown: draft.PlainText,
		CorrectedDraftHTML:     draft.RichMarkup,
		LowConfidence:          lowConfidence,
		Template:               types.TemplateRef{Name: template.Name, Version: template.Version},
		DocumentHash:           documentHash,
		SourceName:             in.Filename,
		CreatedAt:              p.now().UTC(),
	}
	p.logger.Info("document processed",
		zap.String("id", report.ID.String()),
		zap.String("source", in.Filename),
		zap.String("status", string(report.OverallStatus)),
		zap.Int("issues", len(report.Issues)))
	return report, nil
}

var blankLinesRegex = regexp.MustCompile(`\n\s*\n`)

// PublicationBlocks collects the citation blocks of the contributions and
// product sections: their content joined and split on blank lines.
func PublicationBlocks(detected []types.DetectedSection) []string {
	var contents []string
	for _, section := range detected {
		kind := types.KindForID(section.ID)
		if kind == types.KindContributions || kind.IsProductList() {
			if content := strings.TrimSpace(section.Content); content != "" {
				contents = append(contents, content)
			}
		}
	}
	if len(contents) == 0 {
		return nil
	}

	var blocks []string
	for _, block := range blankLinesRegex.Split(strings.Join(contents, "\n\n"), -1) {
		if block = strings.TrimSpace(block); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
