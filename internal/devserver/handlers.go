// handlers.go
package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// multipartOverhead is allowed on top of the file size for part headers and boundaries.
const multipartOverhead = 64 << 10

func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")

	page := IndexPage{MaxFileSize: s.maxFileSize, Extensions: acceptedExtensions}
	if err := indexTemplate.Execute(w, page); err != nil {
		log.Error().Err(err).Msg("Template error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// uploadHandler reads the stops from the uploaded sheet and answers with them as a
// closed route around the depot, in sheet order.
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	uploadID := uuid.New().String()[:8]
	logger := log.With().Str("upload_id", uploadID).Logger()

	r.Body = http.MaxBytesReader(w, r.Body, s.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(s.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonErr(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}

		logger.Debug().Err(err).Msg("Rejected malformed upload")
		jsonErr(w, http.StatusBadRequest, "Invalid multipart form")

		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	sheet, err := readSheet(file, header.Filename)
	if err != nil {
		logger.Debug().Err(err).Str("file", header.Filename).Msg("Failed to read sheet")

		if errors.Is(err, errInvalidFileType) {
			jsonErr(w, http.StatusBadRequest, "Invalid file type")
			return
		}

		jsonErr(w, http.StatusBadRequest, err.Error())

		return
	}

	sheet.FileName = header.Filename
	sheet.FileSize = header.Size
	sheet.UploadTime = time.Now()

	if len(sheet.Rows) > s.maxRows {
		jsonErr(w, http.StatusBadRequest, fmt.Sprintf("Too many rows (> %d)", s.maxRows))
		return
	}

	stops := extractStops(sheet, stopColumn(sheet))

	route, err := buildRoute(stops, r.FormValue("depot_id"))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info().
		Str("file", sheet.FileName).
		Str("size", formatSize(sheet.FileSize)).
		Int("rows", len(sheet.Rows)).
		Int("stops", len(route)).
		Msg("Route built from upload")

	jsonResp(w, http.StatusOK, RouteResponse{ID: uploadID, Route: route})
}
