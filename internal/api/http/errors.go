package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/huddle/internal/repository"
	"github.com/immxrtalbeast/huddle/internal/service"
)

// respondError maps the service taxonomy onto HTTP statuses. Every entry is
// a client error; nothing here is fatal to the process.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusBadRequest

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotMessageAuthor):
		status = http.StatusForbidden
	case errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrPollNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrRoomExists),
		errors.Is(err, repository.ErrUsernameTaken),
		errors.Is(err, service.ErrSelfChat),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidRoomName),
		errors.Is(err, service.ErrMissingUsername),
		errors.Is(err, service.ErrTooFewOptions),
		errors.Is(err, service.ErrBadOptionIndex):
		status = http.StatusBadRequest
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}
