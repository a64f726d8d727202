package server

import (
	"errors"
	"hudori/internal/chat"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const unexpectedError = "An unexpected error occurred."

func (s *Server) HelloWorldHandler(c echo.Context) error {
	resp := map[string]string{
		"message": "Hello World",
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c echo.Context) error {
	resp := make(map[string]any)

	if err := s.chat.Ping(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("health check failed")
		resp["status"] = "down"
		resp["error"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	resp["status"] = "up"
	return c.JSON(http.StatusOK, resp)
}

// respond writes a domain Result: success with the given status, a domain
// violation with the status of its kind, a store failure as a logged 500.
func respond[T any](s *Server, c echo.Context, success int, res chat.Result[T], err error) error {
	if err != nil {
		resp := make(map[string]any)
		if errors.Is(err, chat.ErrAccessDenied) {
			resp["error"] = "Access denied."
			return c.JSON(http.StatusForbidden, resp)
		}

		s.logger.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
		resp["name"] = "unexpected"
		resp["error"] = unexpectedError
		return c.JSON(http.StatusInternalServerError, resp)
	}

	if !res.OK() {
		return c.JSON(statusFor(res.Kind), res)
	}
	return c.JSON(success, res)
}

// rejected turns a failed lookup into an echo error carrying the Result, for
// helpers that stop a handler early.
func rejected[T any](s *Server, c echo.Context, res chat.Result[T], err error) error {
	if err != nil {
		s.logger.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, unexpectedError)
	}
	return echo.NewHTTPError(statusFor(res.Kind), res)
}

func statusFor(kind chat.Kind) int {
	switch kind {
	case chat.KindNotFound:
		return http.StatusNotFound
	case chat.KindAuthorization:
		return http.StatusForbidden
	case chat.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func badRequest(c echo.Context, message string) error {
	resp := make(map[string]any)
	resp["name"] = "unexpected"
	resp["error"] = message

	return c.JSON(http.StatusBadRequest, resp)
}

// recordID accepts either a bare key or a full "collection:key" id from the
// path.
func recordID(collection, param string) string {
	if strings.HasPrefix(param, collection+":") {
		return param
	}
	return collection + ":" + param
}
