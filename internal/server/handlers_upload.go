package server

import (
	"errors"
	"io"
	"net/http"
)

// readStatementFile pulls the uploaded file out of a multipart form,
// enforcing the configured size cap. Returns false after writing the error
// response.
func (s *Server) readStatementFile(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	maxBytes := s.app.Config.Upload.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "file exceeds upload size limit")
			return "", nil, false
		}
		WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "a 'file' form field is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
		return "", nil, false
	}

	return header.Filename, data, true
}

// handleUploadStatement handles POST /api/upload/statement — extract
// holdings from a brokerage statement and merge them into the portfolio.
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	fileName, data, ok := s.readStatementFile(w, r)
	if !ok {
		return
	}

	result, err := s.app.ExtractService.ExtractFile(r.Context(), fileName, data)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if len(result.Holdings) == 0 {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"extraction": result,
			"portfolio":  nil,
		})
		return
	}

	view, err := s.app.PortfolioService.MergeExtracted(r.Context(), result.Holdings)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"extraction": result,
		"portfolio":  view,
	})
}

// handleUploadPreview handles POST /api/upload/extract-preview — run the
// extraction pipeline without touching the portfolio.
func (s *Server) handleUploadPreview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	fileName, data, ok := s.readStatementFile(w, r)
	if !ok {
		return
	}

	result, err := s.app.ExtractService.ExtractFile(r.Context(), fileName, data)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
