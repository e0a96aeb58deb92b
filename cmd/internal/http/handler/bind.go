package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"notesapi/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// bindJSON decodes the request body. A value of the wrong JSON type is a
// field problem (422), anything else is a malformed body (400).
func bindJSON(c echo.Context, dst any) apierror.ErrorResponse {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return apierror.NewFieldTypeError(ute.Field, strings.TrimPrefix(ute.Type.String(), "*"))
	}
	return apierror.MalformedBodyError
}

// parseID reads an int64 path parameter. An unparsable id can never match a
// record, so it is reported as not found.
func parseID(c echo.Context) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.NotFoundError
	}
	return id, nil
}
