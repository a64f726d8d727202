package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandlerNotifications lists the friend requests waiting on the signed-in
// profile.
func (s *Server) HandlerNotifications(c echo.Context) error {
	res, err := s.chat.GetFriendRequestsByProfileID(c.Request().Context(), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}
