// Package bind decodes an HTTP request body into a struct and validates it.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/form/v4"
	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/pkg/validate"
)

// maxBodyBytes returns the configured JSON body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// formDecoder caches struct metadata and is safe for concurrent use.
var formDecoder = form.NewDecoder()

// Form decodes form values into the `form`-tagged fields of dest, which must
// be a pointer to a struct. Pointer fields stay nil when the key is absent so
// callers can tell "not sent" from "sent empty". The form (url-encoded or
// multipart) must already be parsed.
func Form(r *http.Request, dest interface{}) error {
	values := r.Form
	if r.MultipartForm != nil {
		values = url.Values(r.MultipartForm.Value)
	}
	if err := formDecoder.Decode(dest, values); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}
