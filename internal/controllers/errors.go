package controllers

import (
	"errors"
	"net/http"

	"github.com/findash/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no Account with this ID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errNameNotSet      = errors.New("the name field must be set")
	errAccountIDNotSet = errors.New("the accountId field must be set")
	errTokenNotSet     = errors.New("the publicToken field must be set")
)
