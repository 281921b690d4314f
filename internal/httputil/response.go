package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/cinedex/cinedex/internal/tmdb"
)

type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Meta   *Meta       `json:"meta,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

// Meta carries list-level counts alongside the data payload.
type Meta struct {
	Count int `json:"count"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	writeResponse(w, status, Response{Status: "ok", Data: data})
}

// WriteList is WriteJSON with an item count in the meta block.
func WriteList(w http.ResponseWriter, status int, data interface{}, count int) {
	writeResponse(w, status, Response{Status: "ok", Data: data, Meta: &Meta{Count: count}})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeResponse(w, status, Response{
		Status: "error",
		Error:  &ErrorBody{Code: code, Message: message},
	})
}

// WriteDomainError maps service errors onto HTTP statuses. Validation
// failures become 422, a missing TMDB API key 409, anything else a
// 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Error())
	case errors.Is(err, tmdb.ErrNoAPIKey):
		WriteError(w, http.StatusConflict, "not_configured", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
