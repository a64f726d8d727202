package server

import (
	"crypto/subtle"
	"hudori/internal/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

const profileIDKey = "profile_id"

// SessionAuthMiddleware rejects requests without a signed-in profile and
// exposes its id to handlers.
func (s *Server) SessionAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		profileID, err := s.auth.GetProfileSession(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid session")
		}

		c.Set(profileIDKey, profileID)
		return next(c)
	}
}

func currentProfile(c echo.Context) string {
	id, _ := c.Get(profileIDKey).(string)
	return id
}

// requireRole resolves the signed-in profile's membership in serverID and
// checks it holds at least min.
func (s *Server) requireRole(c echo.Context, serverID string, min models.Role) (*models.Member, error) {
	res, err := s.chat.GetMemberByServerIDAndProfileID(c.Request().Context(), serverID, currentProfile(c))
	if err != nil {
		return nil, rejected(s, c, res, err)
	}
	if !res.OK() {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not a member of this server.")
	}
	if res.Data.Role.Rank() < min.Rank() {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Your role does not allow this action.")
	}
	return res.Data, nil
}

// secretMatches compares a request credential to a configured secret. An
// unset secret never matches.
func secretMatches(secret, given string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(given)) == 1
}
