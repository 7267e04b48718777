package enhance

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/biosketch-checker/internal/llm"
	"github.com/jonathan/biosketch-checker/internal/prompts"
	"github.com/jonathan/biosketch-checker/internal/schemas"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// minRewriteRatio is the shortest heading rewrite, relative to the input,
// that is accepted. Shorter answers have dropped body text.
const minRewriteRatio = 0.8

// LLMEnhancer implements Enhancer on top of an llm.Client.
type LLMEnhancer struct {
	client   llm.Client
	headings []string
	validate *validator.Validate
	logger   *zap.Logger
}

var _ Enhancer = (*LLMEnhancer)(nil)

// New returns an enhancer that asks client to normalize headings to the
// canonical headings of template. template and logger may be nil.
func New(client llm.Client, template *types.TemplateConfig, logger *zap.Logger) *LLMEnhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	var headings []string
	if template != nil {
		for _, id := range template.Order {
			if section, ok := template.Section(id); ok {
				headings = append(headings, section.CanonicalHeading)
			}
		}
	}
	return &LLMEnhancer{
		client:   client,
		headings: headings,
		validate: validator.New(),
		logger:   logger,
	}
}

// Open returns the LLM enhancer when apiKey is set and Noop otherwise.
func Open(ctx context.Context, apiKey string, template *types.TemplateConfig, logger *zap.Logger) (Enhancer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Noop{}, nil
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, &APICallError{Operation: "open", Message: "failed to create LLM client", Cause: err}
	}
	return New(client, template, logger), nil
}

func (e *LLMEnhancer) Enabled() bool { return true }

// screen logs document passages that look like instructions to the model.
func (e *LLMEnhancer) screen(op, text string) {
	if matches := DetectInjection(text); len(matches) > 0 {
		e.logger.Warn("document contains model instructions",
			zap.String("operation", op),
			zap.Strings("matches", matches))
	}
}

// Close releases the client.
func (e *LLMEnhancer) Close() error {
	return e.client.Close()
}

// EnhanceHeadings asks the lite tier to put headings on their own lines.
func (e *LLMEnhancer) EnhanceHeadings(ctx context.Context, text string) (string, error) {
	const op = "enhance headings"
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	e.screen(op, text)

	prompt, err := prompts.Render(prompts.KeyHeadings, map[string]string{
		"Headings": "- " + strings.Join(e.headings, "\n- "),
		"Text":     text,
	})
	if err != nil {
		return "", &ParseError{Operation: op, Message: "failed to build prompt", Cause: err}
	}
	answer, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &APICallError{Operation: op, Message: "failed to generate content", Cause: err}
	}

	answer = stripFence(answer)
	if strings.TrimSpace(answer) == "" {
		return "", &ParseError{Operation: op, Message: "empty rewrite"}
	}
	if float64(utf8.RuneCountInString(answer)) < minRewriteRatio*float64(utf8.RuneCountInString(text)) {
		return "", &ParseError{Operation: op, Message: "rewrite dropped document text"}
	}
	return answer, nil
}

// EnhanceCitations asks the standard tier for one cleaned line per block.
func (e *LLMEnhancer) EnhanceCitations(ctx context.Context, blocks []string) ([]string, error) {
	const op = "enhance citations"
	if len(blocks) == 0 {
		return blocks, nil
	}

	encoded, err := json.Marshal(blocks)
	if err != nil {
		return nil, &ParseError{Operation: op, Message: "failed to encode citations", Cause: err}
	}
	prompt, err := prompts.Render(prompts.KeyCitations, map[string]string{
		"Count":     strconv.Itoa(len(blocks)),
		"Citations": string(encoded),
	})
	if err != nil {
		return nil, &ParseError{Operation: op, Message: "failed to build prompt", Cause: err}
	}
	answer, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Operation: op, Message: "failed to generate content", Cause: err}
	}

	var cleaned []string
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(answer)), &cleaned); err != nil {
		return nil, &ParseError{Operation: op, Message: "answer is not a JSON string array", Cause: err}
	}
	if len(cleaned) != len(blocks) {
		return nil, &ParseError{
			Operation: op,
			Message:   "expected " + strconv.Itoa(len(blocks)) + " citations, got " + strconv.Itoa(len(cleaned)),
		}
	}
	for i, c := range cleaned {
		if strings.TrimSpace(c) == "" {
			cleaned[i] = blocks[i]
		}
	}
	return cleaned, nil
}

// ExtractStructured asks the standard tier for the structured payload. The
// answer must pass the payload schema and struct validation.
func (e *LLMEnhancer) ExtractStructured(ctx context.Context, text string) (*types.StructuredPayload, error) {
	const op = "extract structured payload"
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	e.screen(op, text)

	schema := llm.BiosketchPayloadSchema(prompts.MustGet(prompts.KeyExtractPayload))
	prompt := llm.BuildExtractionPrompt(schema, quoteDocument(text, "biosketch"))
	answer, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Operation: op, Message: "failed to generate content", Cause: err}
	}
	return e.decodePayload(op, llm.CleanJSONBlock(answer))
}

func (e *LLMEnhancer) decodePayload(op, answer string) (*types.StructuredPayload, error) {
	if err := schemas.Validate(schemas.Payload, []byte(answer)); err != nil {
		return nil, &ParseError{Operation: op, Message: "payload failed schema validation", Cause: err}
	}

	var payload types.StructuredPayload
	if err := json.Unmarshal([]byte(answer), &payload); err != nil {
		return nil, &ParseError{Operation: op, Message: "failed to decode payload", Cause: err}
	}
	if err := e.validate.Struct(&payload); err != nil {
		return nil, &ParseError{Operation: op, Message: "payload failed validation", Cause: err}
	}
	return &payload, nil
}

func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 && !strings.Contains(trimmed[:idx], " ") {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
