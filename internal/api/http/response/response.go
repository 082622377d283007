// Package response renders JSON bodies and API errors.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/storefront-server/internal/apierror"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Nothing to do if the client is gone.
	_, _ = buf.WriteTo(w)
}

// WriteError renders err. Errors that are not *apierror.APIError become 500.
// With debug set, the cause of a 500 is included as details.
func WriteError(w http.ResponseWriter, err error, debug bool) {
	apiErr, ok := apierror.As(err)
	if !ok {
		apiErr = apierror.NewErrInternalServerError(err)
	}

	body := ErrorBody{
		Error:   apiErr.Code,
		Message: apiErr.Message,
	}
	if debug && apiErr.HTTPCode == http.StatusInternalServerError && apiErr.Cause != nil {
		body.Details = apiErr.Cause.Error()
	}

	WriteJSON(w, apiErr.HTTPCode, body)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// It returns an *apierror.APIError when the body is not valid JSON.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apierror.NewErrInvalidJSON(err)
	}
	if dec.More() {
		return apierror.NewErrInvalidJSON(errors.New("unexpected data after JSON body"))
	}
	return nil
}
