package http

import (
	"errors"
	"net/http"

	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/domain/model/driver"
	"returns/internal/core/domain/model/order"
	"returns/internal/core/domain/model/promo"
	"returns/internal/core/ports"
	"returns/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// apiError is the JSON error payload returned by every endpoint.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, apiError{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError maps an application error to an HTTP status. Conflict checks
// run before validation checks because illegal transitions wrap the generic
// invalid-value sentinel.
func respondError(ctx echo.Context, err error) error {
	status := statusForError(err)
	return ctx.JSON(status, apiError{
		Code:    status,
		Message: err.Error(),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrAlreadyAssigned),
		errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrRefundInFlight),
		errors.Is(err, driver.ErrDriverBusy),
		errors.Is(err, errs.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, order.ErrRefundExceedsBalance),
		errors.Is(err, order.ErrNotCharged),
		errors.Is(err, commands.ErrInvalidPromo),
		errors.Is(err, driver.ErrDriverOffline),
		errors.Is(err, promo.ErrPromoExpired),
		errors.Is(err, promo.ErrPromoExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrProcessorRejected):
		return http.StatusPaymentRequired
	case errors.Is(err, ports.ErrProcessorTimeout):
		return http.StatusBadGateway
	case errors.Is(err, ports.ErrPricingUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
