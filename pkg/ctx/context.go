// Package ctx provides a gin.Context-inspired request context for cakeshop
// handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    p, err := pc.svc.Get(c.Context(), c.ParamUint("id"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(p)
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/cakeshop/pkg/bind"
	"github.com/shashiranjanraj/cakeshop/pkg/logger"
	"github.com/shashiranjanraj/cakeshop/pkg/response"
	"github.com/shashiranjanraj/cakeshop/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair and provides a helper API.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return new(Context) },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R = w, r
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// Param returns a URL path parameter ("/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a path parameter as an unsigned id; 0 when it is not one.
// Ids start at 1, so 0 never matches a stored row.
func (c *Context) ParamUint(key string) uint {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// Query returns a query-string value, "" when absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger (tagged with request_id).
func (c *Context) Logger() *slog.Logger {
	return logger.WithCtx(c.R.Context())
}

// BindJSON decodes the JSON body into dest and runs validation.
// On failure it sends a 400 {"error": ...} and returns false.
//
//	var in services.LoginInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ShouldBindJSON decodes and validates without writing a response.
func (c *Context) ShouldBindJSON(dest any) (map[string]string, error) {
	return bind.JSON(c.R, dest)
}

// JSON writes v as JSON with the given status code.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Success sends a 200 with data as the body.
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 with data as the body.
func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, data)
}

// Error sends {"error": message}.
func (c *Context) Error(code int, message string) {
	response.Error(c.W, code, message)
}

// Fail maps err to a status through response.Fail. Internal errors are
// logged with the request id before the generic 500 goes out.
func (c *Context) Fail(err error) {
	var se response.StatusError
	if !errors.As(err, &se) || se.HTTPStatus() >= http.StatusInternalServerError {
		c.Logger().Error("request failed", "method", c.R.Method, "path", c.R.URL.Path, "error", err)
	}
	response.Fail(c.W, err)
}

// ValidationError sends a 400 with the joined messages and per-field errors.
func (c *Context) ValidationError(errs map[string]string) {
	response.ValidationError(c.W, validate.Summary(errs), errs)
}

// NotFound sends a 404, "Not found" unless a message is given.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// Data writes raw bytes with the given content type.
func (c *Context) Data(code int, contentType string, data []byte) {
	c.W.Header().Set("Content-Type", contentType)
	c.W.WriteHeader(code)
	c.W.Write(data) //nolint:errcheck
}

// Attachment marks the response as a download named filename.
func (c *Context) Attachment(filename string) {
	c.W.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
