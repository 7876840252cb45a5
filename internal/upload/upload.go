/*
Package upload sends a file selected in a form to a route server and renders the
returned route, or the failure, into a text display.

The page pieces a submission touches are passed in as capabilities (Form, FileSource,
TextSink) so a Handler runs the same way behind a browser page, a terminal or a test.
*/
package upload

import (
	"context"
	"io"
)

// Event is a single form submission.
type Event interface {
	// PreventDefault suppresses whatever the form would do on its own
	// (navigation, in a browser).
	PreventDefault()
}

// Form is something that can be submitted.
type Form interface {
	// OnSubmit registers fn to be called for every submission.
	OnSubmit(fn func(Event))
}

// FileSource yields the file currently selected in the form.
//
// SelectedFile returns (nil, nil) when nothing is selected.
type FileSource interface {
	SelectedFile() (*File, error)
}

// TextSink is the result display. SetText replaces its whole content.
type TextSink interface {
	SetText(text string)
}

// Uploader sends a file to the route server and returns the route it answers with.
type Uploader interface {
	Upload(ctx context.Context, file *File) (Route, error)
}

// File is the file selected at submission time. Body is read once.
type File struct {
	Name string
	Size int64
	Body io.Reader
}

// Close closes Body if it is closable.
func (f *File) Close() error {
	if c, ok := f.Body.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
