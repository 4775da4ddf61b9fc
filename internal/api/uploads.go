package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docscan/internal/doctree"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// requestError is a client-facing failure with its HTTP status.
type requestError struct {
	msg  string
	code int
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) *requestError {
	return &requestError{msg: fmt.Sprintf(format, args...), code: http.StatusBadRequest}
}

// parseUploadForm bounds and parses a multipart body. Callers must call
// r.MultipartForm.RemoveAll when it returns nil.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request) *requestError {
	limit := s.cfg.MaxUploadBytes*int64(s.cfg.MaxFiles) + 1<<20 // extra 1MB for form overhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return &requestError{msg: fmt.Sprintf("request exceeds max size (%d bytes)", limit), code: http.StatusRequestEntityTooLarge}
		}
		return badRequest("invalid multipart form: %v", err)
	}
	return nil
}

// uploadedFiles reads every "files" part of a parsed multipart form, in
// upload order.
func (s *Server) uploadedFiles(r *http.Request) ([]doctree.File, *requestError) {
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, badRequest("no files uploaded")
	}
	if len(headers) > s.cfg.MaxFiles {
		return nil, badRequest("too many files: %d (max %d)", len(headers), s.cfg.MaxFiles)
	}

	files := make([]doctree.File, 0, len(headers))
	for _, fh := range headers {
		name := sanitizeFilename(fh.Filename)
		tooLarge := &requestError{
			msg:  fmt.Sprintf("file %s exceeds max size (%d bytes)", name, s.cfg.MaxUploadBytes),
			code: http.StatusRequestEntityTooLarge,
		}
		if fh.Size > s.cfg.MaxUploadBytes {
			return nil, tooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, &requestError{msg: "failed to open file " + name, code: http.StatusInternalServerError}
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, &requestError{msg: "failed to read file " + name, code: http.StatusInternalServerError}
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			return nil, tooLarge
		}
		files = append(files, doctree.File{Name: name, Data: data})
	}
	return files, nil
}

func sanitizeFilename(name string) string {
	// Browsers on Windows may send the full client path.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
