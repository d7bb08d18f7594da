package http

import (
	"errors"
	"net/http"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Actor headers are set by the API gateway after authentication. This
// service only decides what the already authenticated actor may do.
const (
	headerActorRole = "X-Actor-Role"
	headerActorID   = "X-Actor-Id"
)

var errActorIDIsMissing = errors.New("X-Actor-Id header is required")

// requireAction guards an endpoint with the authorization policy for the
// given action.
func (s *Server) requireAction(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			role := ports.Role(ctx.Request().Header.Get(headerActorRole))
			if !role.Valid() {
				return ctx.JSON(http.StatusUnauthorized, apiError{
					Code:    http.StatusUnauthorized,
					Message: "a valid " + headerActorRole + " header is required",
				})
			}

			if !s.authorizer.Allowed(role, action) {
				return ctx.JSON(http.StatusForbidden, apiError{
					Code:    http.StatusForbidden,
					Message: string(role) + " may not perform " + action,
				})
			}

			return next(ctx)
		}
	}
}

// actorID returns the authenticated actor's identity. Used where the acting
// customer or driver is a command argument.
func actorID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(headerActorID)
	if raw == "" {
		return kernel.UUID{}, errActorIDIsMissing
	}

	return kernel.UUIDFromString(raw)
}
