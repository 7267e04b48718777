package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/biosketch-checker/internal/pipeline"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// StreamFailure is the payload of the terminal "error" event.
type StreamFailure struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// progressStream writes one upload's pipeline progress as Server-Sent Events:
// a "stage" event per finished stage, then exactly one "report" or "error"
// event. Events carry increasing ids. Stage callbacks come from concurrent
// pipeline stages, so writes are serialized, and stages that finish after the
// terminal event are dropped.
type progressStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *zap.Logger
	lastID  int
	closed  bool
}

func newProgressStream(w http.ResponseWriter, logger *zap.Logger) (*progressStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &progressStream{w: w, flusher: flusher, logger: logger}, nil
}

func (p *progressStream) stage(event pipeline.ProgressEvent) {
	p.write("stage", event, false)
}

func (p *progressStream) report(report *types.ValidationResult) {
	p.write("report", report, true)
}

func (p *progressStream) fail(err error) {
	p.write("error", StreamFailure{Error: err.Error(), Status: HTTPStatus(err)}, true)
}

func (p *progressStream) write(event string, data any, terminal bool) {
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Warn("failed to encode SSE event", zap.String("event", event), zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = terminal
	p.lastID++
	if _, err := fmt.Fprintf(p.w, "id: %d\nevent: %s\ndata: %s\n\n", p.lastID, event, payload); err != nil {
		p.logger.Warn("failed to write SSE event", zap.String("event", event), zap.Error(err))
		return
	}
	p.flusher.Flush()
}
