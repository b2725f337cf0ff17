package response

import (
	"errors"
	"net/http"

	"rentalhub/pkg/apperr"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Meta       *Meta       `json:"meta,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Meta carries pagination info alongside list payloads
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithPagination wraps a list payload together with pagination meta
func SuccessWithPagination(statusCode int, data interface{}, page, limit int, total int64) Response {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Meta: &Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// FromError maps a service error onto the matching HTTP status:
// not found -> 404, conflict -> 409, validation -> 400, anything else -> 500.
func FromError(err error) (int, Response) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, Error(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, Error(http.StatusConflict, err.Error())
	case apperr.IsValidation(err):
		return http.StatusBadRequest, Error(http.StatusBadRequest, err.Error())
	default:
		return http.StatusInternalServerError, Error(http.StatusInternalServerError, err.Error())
	}
}
