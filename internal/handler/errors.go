package handler

import (
	"errors"
	"net/http"

	"elixa-backend/internal/client"
	"elixa-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto HTTP responses. Anything unmapped
// falls through to echo's 500 handling.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrCartNotPayable),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrProductNotInCart),
		errors.Is(err, service.ErrInvalidVerifyToken):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrVerificationInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, client.ErrGatewayUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable, retry later")

	case errors.Is(err, service.ErrVerificationExhausted):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}

	return err
}

func callerID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return userID, nil
}
