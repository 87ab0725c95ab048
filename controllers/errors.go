package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yeremiapane/restaurant-foh/engine"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var ErrNoPermission = &CustomError{"You do not have permission"}

func parseID(s string, out *uint) error {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*out = uint(id)
	return nil
}

// statusForEngineError memetakan taksonomi error engine ke kode HTTP.
// NotFound dan InvalidTransition langsung diteruskan ke pemanggil;
// error lain diperlakukan sebagai gangguan store yang transient.
func statusForEngineError(err error) int {
	switch {
	case errors.Is(err, engine.ErrBookingNotFound),
		errors.Is(err, engine.ErrTableNotFound),
		errors.Is(err, engine.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrTableConflict):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNoAvailableTable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
