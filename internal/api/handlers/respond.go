package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/formbay/formbay-be/internal/services"
)

// errorBody is the error envelope returned by every endpoint.
type errorBody struct {
	Code    int                   `json:"code"`
	Message string                `json:"message"`
	Details []services.FieldError `json:"details,omitempty"`
}

// pagination describes one page of a list result.
type pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// pagedBody wraps a list result with its pagination block.
type pagedBody struct {
	Data       interface{} `json:"data"`
	Pagination pagination  `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writePage(w http.ResponseWriter, data interface{}, total, page, pageSize int) {
	pages := 0
	if pageSize > 0 {
		pages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	writeJSON(w, http.StatusOK, pagedBody{
		Data:       data,
		Pagination: pagination{Total: total, Page: page, Pages: pages},
	})
}

// writeError maps a service error to its HTTP status and envelope. Unknown
// errors are logged and leak nothing beyond a generic message.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Code {
		case services.ErrorInvalid, services.ErrorConflict:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Code: status, Message: svcErr.Message, Details: svcErr.Details})
		return
	}

	log.Error().Err(err).Msg("Unhandled error in request handler")
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: msg})
}

// maxPageSize caps ?limit= so one request cannot serialize a whole table.
const maxPageSize = 100

// pageParams reads ?page= and ?limit= with the defaults the SPA relies on.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
