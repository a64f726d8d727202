package server

import (
	"hudori/internal/chat"
	"hudori/internal/database"
	"hudori/internal/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

func serverParam(c echo.Context) string {
	return recordID(database.Servers, c.Param("serverId"))
}

func (s *Server) HandlerCreateServer(c echo.Context) error {
	body := new(chat.NewServer)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when creating the server.")
	}
	body.CreatorId = currentProfile(c)

	res, err := s.chat.CreateServer(c.Request().Context(), *body)
	return respond(s, c, http.StatusCreated, res, err)
}

func (s *Server) HandlerGetServer(c echo.Context) error {
	res, err := s.chat.GetServerWithMembersAndChannelsByServerIDAndProfileID(c.Request().Context(), serverParam(c), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerUpdateServer(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleAdmin); err != nil {
		return err
	}

	body := new(chat.ServerPatch)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when updating the server.")
	}

	res, err := s.chat.UpdateServerByID(c.Request().Context(), serverID, *body)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteServer(c echo.Context) error {
	res, err := s.chat.DeleteServerByID(c.Request().Context(), serverParam(c), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerRegenerateInvite(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleAdmin); err != nil {
		return err
	}

	res, err := s.chat.RegenerateInviteCode(c.Request().Context(), serverID)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerLeaveServer(c echo.Context) error {
	res, err := s.chat.LeaveServer(c.Request().Context(), serverParam(c), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerServerMembers(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleGuest); err != nil {
		return err
	}

	res, err := s.chat.GetMembersByServerID(c.Request().Context(), serverID)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerSystemMessages(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleGuest); err != nil {
		return err
	}

	res, err := s.chat.GetSystemMessagesByServerID(c.Request().Context(), serverID)
	return respond(s, c, http.StatusOK, res, err)
}
