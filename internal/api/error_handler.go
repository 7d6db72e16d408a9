package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/api/httperrors"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// HTTPErrorHandlerWithConfig maps classified domain errors onto the wire
// error shape. Unclassified errors become opaque 500s when hiding internal
// details is enabled.
func HTTPErrorHandlerWithConfig(hideInternalDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := util.LogFromEchoContext(c)

		httpErr := toHTTPError(err, hideInternalDetails)

		if httpErr.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", httpErr.Code).Msg("Request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.Code)
		} else {
			writeErr = c.JSON(httpErr.Code, httpErr)
		}
		if writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}
}

func toHTTPError(err error, hideInternalDetails bool) *httperrors.HTTPError {
	var httpErr *httperrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var authErr *types.AuthError
	if errors.As(err, &authErr) {
		return httperrors.FromAuthError(authErr)
	}

	if errors.Is(err, feedelegation.ErrNoViableGasToken) {
		return httperrors.NewHTTPError(http.StatusUnprocessableEntity, "NO_VIABLE_GAS_TOKEN", "No gas token is available for fee delegation.")
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		title := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			title = msg
		}
		return httperrors.NewHTTPError(echoErr.Code, "GENERIC", title)
	}

	if hideInternalDetails {
		return httperrors.NewHTTPError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error.")
	}

	return httperrors.NewHTTPErrorWithDetail(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error.", err.Error())
}
