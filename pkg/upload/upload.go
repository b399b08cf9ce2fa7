// Package upload reads a single image file out of a multipart request.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// formOverhead is the room left for the non-file form fields.
const formOverhead = 1 << 20

// Error is an upload rejection; it carries its own HTTP status.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string   { return e.Msg }
func (e *Error) HTTPStatus() int { return e.Status }

var (
	ErrNotImage  = &Error{Status: http.StatusBadRequest, Msg: "Only image files allowed"}
	ErrMalformed = &Error{Status: http.StatusBadRequest, Msg: "Malformed multipart form"}
	ErrTooLarge  = &Error{Status: http.StatusBadRequest, Msg: "File too large"}
)

// File is an accepted image. Close releases the underlying multipart file.
type File struct {
	Name        string // original client file name
	ContentType string
	Size        int64
	Content     multipart.File
}

func (f *File) Read(p []byte) (int, error) { return f.Content.Read(p) }

func (f *File) Close() error {
	if f == nil || f.Content == nil {
		return nil
	}
	return f.Content.Close()
}

// Image parses the multipart form of r and returns the file in field, or
// (nil, nil) when the field is absent. The file must be at most maxBytes and
// declare a MIME type starting with "image/". After Image returns, the
// form's text fields are available through r.MultipartForm.
func Image(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)
	if err := r.ParseMultipartForm(maxBytes + formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, ErrMalformed
	}

	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, ErrMalformed
	}

	if hdr.Size > maxBytes {
		f.Close()
		return nil, ErrTooLarge
	}
	ct := hdr.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		f.Close()
		return nil, ErrNotImage
	}

	return &File{Name: hdr.Filename, ContentType: ct, Size: hdr.Size, Content: f}, nil
}

var (
	spaces   = regexp.MustCompile(`\s+`)
	unsafeCh = regexp.MustCompile(`[^a-zA-Z0-9\-._]`)
)

// SanitizeName turns whitespace runs into "-" and drops everything outside
// [a-zA-Z0-9-._].
func SanitizeName(name string) string {
	return unsafeCh.ReplaceAllString(spaces.ReplaceAllString(name, "-"), "")
}

// StoredName is "<unix millis>-<sanitized original name>".
func StoredName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeName(original))
}

var _ io.ReadCloser = (*File)(nil)
