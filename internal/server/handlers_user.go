package server

import (
	"hudori/internal/chat"
	"hudori/internal/database"
	"net/http"

	"github.com/labstack/echo/v4"
)

type statusBody struct {
	Status string `json:"status"`
}

type profilesBody struct {
	Ids []string `json:"ids"`
}

func (s *Server) HandlerGetMe(c echo.Context) error {
	res, err := s.chat.GetProfileByID(c.Request().Context(), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerUpdateMe(c echo.Context) error {
	body := new(chat.ProfilePatch)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when changing your informations.")
	}

	res, err := s.chat.UpdateProfileByID(c.Request().Context(), currentProfile(c), *body)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerUpdateStatus(c echo.Context) error {
	body := new(statusBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when changing your status.")
	}

	res, err := s.chat.UpdateProfileByID(c.Request().Context(), currentProfile(c), chat.ProfilePatch{Status: &body.Status})
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerMyServers(c echo.Context) error {
	res, err := s.chat.GetAllServersByProfileID(c.Request().Context(), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerGetProfile(c echo.Context) error {
	res, err := s.chat.GetProfileByID(c.Request().Context(), recordID(database.Profiles, c.Param("profileId")))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerGetProfileByUsername(c echo.Context) error {
	res, err := s.chat.GetProfileByUsername(c.Request().Context(), c.Param("username"))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerGetProfiles(c echo.Context) error {
	body := new(profilesBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when fetching the profiles.")
	}

	res, err := s.chat.GetProfilesByIDs(c.Request().Context(), body.Ids)
	return respond(s, c, http.StatusOK, res, err)
}
