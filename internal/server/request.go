package server

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kiesman99/photokit/internal/photo"
)

// multipartMemory is how much of a form is held in memory before spilling to disk.
const multipartMemory = 8 << 20

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readImage returns the uploaded image bytes. The body is either the raw
// image or a multipart form with an "image" field.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if isMultipart(r) {
		if err := s.parseMultipart(w, r); err != nil {
			return nil, err
		}
		fh := firstFile(r, "image")
		if fh == nil {
			return nil, photo.Invalid("image", photo.ErrNoImage)
		}
		return readFileHeader(fh)
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}
	return data, nil
}

func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	if !isMultipart(r) {
		return photo.Invalid("body", errors.New("expected multipart/form-data"))
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return photo.Invalid("body", err)
	}
	return nil
}

// formImage decodes the named form file. A missing optional file yields a nil image.
func (s *Server) formImage(r *http.Request, field string, required bool) (image.Image, error) {
	fh := firstFile(r, field)
	if fh == nil {
		if required {
			return nil, photo.Invalid(field, photo.ErrNoImage)
		}
		return nil, nil
	}
	data, err := readFileHeader(fh)
	if err != nil {
		return nil, err
	}

	session := photo.NewSession()
	if err := session.Load(r.Context(), data); err != nil {
		var ve *photo.ValidationError
		if errors.As(err, &ve) {
			ve.Field = field
		}
		return nil, err
	}
	return session.Image, nil
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	var file openapi_types.File
	file.InitFromMultipart(fh)

	data, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Filename(), err)
	}
	return data, nil
}
