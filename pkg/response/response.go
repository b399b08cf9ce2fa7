// Package response writes the JSON bodies the cakeshop API returns.
//
// Successful responses carry the resource itself (an object or an array);
// failures always carry {"error": "<message>"}.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with data as the body.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 with data as the body.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// ValidationError sends a 400 with a summary message and per-field errors.
func ValidationError(w http.ResponseWriter, message string, fields map[string]string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: message, Fields: fields})
}

// StatusError is implemented by errors that know their HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}

// Fail writes err as {"error": message}. Errors that implement StatusError
// carry their own status and message; anything else is a 500 with a
// generic message.
func Fail(w http.ResponseWriter, err error) {
	var se StatusError
	if errors.As(err, &se) && se.HTTPStatus() < http.StatusInternalServerError {
		Error(w, se.HTTPStatus(), se.Error())
		return
	}
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
