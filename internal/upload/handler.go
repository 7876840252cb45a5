package upload

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Handler reacts to form submissions by uploading the selected file and rendering the outcome.
//
// Submissions are independent: each one renders exactly once, and when several are in
// flight the last one to settle is what the display ends up showing.
type Handler struct {
	files    FileSource
	display  TextSink
	uploader Uploader

	ctx    context.Context
	logger zerolog.Logger

	// renderMu serializes writes to display.
	renderMu sync.Mutex
	inflight sync.WaitGroup
}

// Option configures a Handler.
type Option func(*Handler)

// WithContext sets the context used for submissions started by HandleSubmit.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) { h.ctx = ctx }
}

// WithLogger replaces the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// New returns a Handler that is not yet listening to any form.
func New(files FileSource, display TextSink, uploader Uploader, opts ...Option) *Handler {
	h := &Handler{
		files:    files,
		display:  display,
		uploader: uploader,
		ctx:      context.Background(),
		logger:   log.Logger,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Attach builds a Handler and registers it as the form's submit listener.
// The listener is never removed.
func Attach(form Form, files FileSource, display TextSink, uploader Uploader, opts ...Option) *Handler {
	h := New(files, display, uploader, opts...)
	form.OnSubmit(h.HandleSubmit)

	return h
}

// HandleSubmit is the submit listener. The no-file case is rendered before it returns;
// an upload is started on its own goroutine and rendered when it settles.
func (h *Handler) HandleSubmit(ev Event) {
	ev.PreventDefault()

	file, outcome, ok := h.selectFile()
	if !ok {
		h.render(outcome)

		return
	}

	h.inflight.Add(1)

	go func() {
		defer h.inflight.Done()

		h.render(h.upload(h.ctx, file))
	}()
}

// Submit runs one submission to completion, renders it and returns its outcome.
func (h *Handler) Submit(ctx context.Context, ev Event) Outcome {
	ev.PreventDefault()

	file, outcome, ok := h.selectFile()
	if ok {
		outcome = h.upload(ctx, file)
	}

	h.render(outcome)

	return outcome
}

// Wait blocks until every submission started by HandleSubmit has rendered.
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// selectFile reads the file source. ok is false when there is nothing to upload,
// in which case outcome is what should be rendered instead.
func (h *Handler) selectFile() (_ *File, _ Outcome, ok bool) {
	file, err := h.files.SelectedFile()
	if err != nil {
		return nil, Outcome{Kind: OutcomeError, Err: fmt.Errorf("failed to read selected file: %w", err)}, false
	}

	if file == nil {
		h.logger.Debug().Msg("Form submitted without a file")

		return nil, Outcome{Kind: OutcomeNoFile}, false
	}

	return file, Outcome{}, true
}

func (h *Handler) upload(ctx context.Context, file *File) Outcome {
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Warn().Err(err).Str("file", file.Name).Msg("Failed to close selected file")
		}
	}()

	h.logger.Debug().
		Str("file", file.Name).
		Int64("size", file.Size).
		Msg("Uploading selected file")

	route, err := h.uploader.Upload(ctx, file)
	if err != nil {
		h.logger.Debug().Err(err).Str("file", file.Name).Msg("Upload failed")
	}

	return RouteOutcome(route, err)
}

func (h *Handler) render(outcome Outcome) {
	h.renderMu.Lock()
	defer h.renderMu.Unlock()

	h.display.SetText(outcome.Message())
}
