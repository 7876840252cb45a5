// types.go
package devserver

import "time"

// Sheet is the first sheet of an uploaded file.
type Sheet struct {
	Headers    []string
	Rows       [][]string
	FileName   string
	FileSize   int64
	UploadTime time.Time
}

// RouteResponse is the body of a successful upload.
type RouteResponse struct {
	ID    string   `json:"id"`
	Route []string `json:"route"`
}

// APIResponse is the body of every other JSON answer.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IndexPage feeds the upload page template.
type IndexPage struct {
	MaxFileSize int64
	Extensions  []string
}
