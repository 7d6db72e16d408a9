package util

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vechain/walletkit/internal/api/httperrors"
)

// Validatable payloads verify their own invariants after binding
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the request body and runs the payload's own
// validation when it implements Validatable
func BindAndValidateBody(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return httperrors.ErrBadRequestInvalidBody
	}

	if validatable, ok := v.(Validatable); ok {
		if err := validatable.Validate(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
	}

	return nil
}
