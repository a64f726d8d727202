package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) HandlerCheckInvitation(c echo.Context) error {
	res, err := s.chat.GetServerByInviteCodeAndMemberCheck(c.Request().Context(), c.Param("inviteCode"), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerJoinServer(c echo.Context) error {
	res, err := s.chat.JoinServerByInviteCode(c.Request().Context(), c.Param("inviteCode"), currentProfile(c))
	return respond(s, c, http.StatusCreated, res, err)
}
