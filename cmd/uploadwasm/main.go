//go:build js && wasm

// Command uploadwasm binds the upload page's form, file input and result elements to
// an upload.Handler. Build it with GOOS=js GOARCH=wasm and serve it as /static/upload.wasm
// next to the Go distribution's wasm_exec.js.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/rs/zerolog/log"

	"routeupload/internal/audit"
	"routeupload/internal/upload"
)

// Element ids on the upload page.
const (
	formID   = "uploadForm"
	inputID  = "fileInput"
	resultID = "result"
)

var errMissingElement = errors.New("missing page element")

func main() {
	audit.SetDefaultLogger()

	if err := run(); err != nil {
		log.Error().Err(err).Msg("Upload form not wired")

		return
	}

	// Keep the listeners alive for the lifetime of the page.
	select {}
}

func run() error {
	doc := js.Global().Get("document")

	form, err := elementByID(doc, formID)
	if err != nil {
		return err
	}

	input, err := elementByID(doc, inputID)
	if err != nil {
		return err
	}

	result, err := elementByID(doc, resultID)
	if err != nil {
		return err
	}

	origin := js.Global().Get("location").Get("origin").String()

	client, err := upload.NewClient(origin)
	if err != nil {
		return fmt.Errorf("failed to create upload client: %w", err)
	}

	upload.Attach(&domForm{el: form}, domFileInput{el: input}, domText{el: result}, client)

	log.Info().Str("endpoint", client.Endpoint()).Msg("Upload form ready")

	return nil
}

func elementByID(doc js.Value, id string) (js.Value, error) {
	el := doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, fmt.Errorf("%w: #%s", errMissingElement, id)
	}

	return el, nil
}

type domEvent struct {
	v js.Value
}

func (e domEvent) PreventDefault() {
	e.v.Call("preventDefault")
}

type domForm struct {
	el js.Value
	// listeners stay registered for the lifetime of the page.
	listeners []js.Func
}

func (f *domForm) OnSubmit(fn func(upload.Event)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(domEvent{v: args[0]})

		return nil
	})

	f.listeners = append(f.listeners, cb)
	f.el.Call("addEventListener", "submit", cb)
}

type domFileInput struct {
	el js.Value
}

// SelectedFile runs inside the submit callback, so it must not wait on promises.
// The bytes are fetched lazily on the first Read, from the upload goroutine.
func (i domFileInput) SelectedFile() (*upload.File, error) {
	files := i.el.Get("files")
	if files.IsNull() || files.IsUndefined() || files.Length() == 0 {
		return nil, nil
	}

	file := files.Index(0)

	return &upload.File{
		Name: file.Get("name").String(),
		Size: int64(file.Get("size").Int()),
		Body: &blobReader{blob: file},
	}, nil
}

type domText struct {
	el js.Value
}

func (t domText) SetText(text string) {
	t.el.Set("textContent", text)
}

// blobReader reads a JS Blob through its arrayBuffer() promise.
type blobReader struct {
	blob js.Value
	r    *bytes.Reader
	err  error
}

func (b *blobReader) Read(p []byte) (int, error) {
	if b.r == nil && b.err == nil {
		b.load()
	}

	if b.err != nil {
		return 0, b.err
	}

	return b.r.Read(p)
}

func (b *blobReader) load() {
	buf, err := await(b.blob.Call("arrayBuffer"))
	if err != nil {
		b.err = fmt.Errorf("failed to read file: %w", err)

		return
	}

	arr := js.Global().Get("Uint8Array").New(buf)
	data := make([]byte, arr.Get("length").Int())
	js.CopyBytesToGo(data, arr)

	b.r = bytes.NewReader(data)
}

func await(promise js.Value) (js.Value, error) {
	type settled struct {
		v   js.Value
		err error
	}

	ch := make(chan settled, 1)

	onFulfilled := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{v: args[0]}

		return nil
	})
	defer onFulfilled.Release()

	onRejected := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{err: js.Error{Value: args[0]}}

		return nil
	})
	defer onRejected.Release()

	promise.Call("then", onFulfilled, onRejected)

	s := <-ch

	return s.v, s.err
}
