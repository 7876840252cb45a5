// Package console drives an upload.Handler from a terminal: file paths stand in for the
// file picker, and results are printed one line per render.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"routeupload/internal/upload"
)

// Event is a terminal submission. There is no default action to suppress,
// so PreventDefault only records that it was called.
type Event struct {
	Prevented bool
}

// PreventDefault implements upload.Event.
func (e *Event) PreventDefault() { e.Prevented = true }

// PathInput is a file input backed by a path on disk. An empty path means no file.
type PathInput struct {
	mu   sync.Mutex
	path string
}

// NewPathInput returns an input with path selected.
func NewPathInput(path string) *PathInput {
	return &PathInput{path: path}
}

// Set changes the selected path.
func (p *PathInput) Set(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.path = strings.TrimSpace(path)
}

// SelectedFile opens the selected path.
func (p *PathInput) SelectedFile() (*upload.File, error) {
	p.mu.Lock()
	path := p.path
	p.mu.Unlock()

	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path) // #nosec G304 -- the user picks the file
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	if info.IsDir() {
		_ = f.Close()

		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &upload.File{Name: info.Name(), Size: info.Size(), Body: f}, nil
}

// Display prints each text it is given on its own line.
type Display struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

// NewDisplay returns a Display writing to out.
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// SetText implements upload.TextSink.
func (d *Display) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = text
	_, _ = fmt.Fprintln(d.out, text)
}

// Text returns what the display currently shows.
func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.last
}

// LineForm submits once per input line, selecting the line as the file path first.
type LineForm struct {
	in        io.Reader
	input     *PathInput
	listeners []func(upload.Event)
}

// NewLineForm returns a form reading paths from in into input.
func NewLineForm(in io.Reader, input *PathInput) *LineForm {
	return &LineForm{in: in, input: input}
}

// OnSubmit implements upload.Form.
func (f *LineForm) OnSubmit(fn func(upload.Event)) {
	f.listeners = append(f.listeners, fn)
}

// Run reads lines until in is exhausted or ctx is done.
func (f *LineForm) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(f.in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		f.input.Set(scanner.Text())

		ev := &Event{}
		for _, fn := range f.listeners {
			fn(ev)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}
