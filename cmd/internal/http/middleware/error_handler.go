package middleware

import (
	"errors"
	"net/http"

	"notesapi/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ErrorHandler renders framework errors (unknown routes, body limit, rate
// limit...) with the same {"message": ...} shape the handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := apierror.InternalServerError.Message

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	} else {
		log.Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, apierror.NewSimple(status, message))
	}

	if err != nil {
		log.Errorf("failed to write error response: %v", err)
	}
}
