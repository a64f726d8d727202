package server

import (
	"hudori/internal/database"
	"hudori/internal/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

type roleBody struct {
	Role string `json:"role"`
}

// actorAndTarget loads the :memberId target and the signed-in profile's
// membership in the same server.
func (s *Server) actorAndTarget(c echo.Context) (*models.Member, *models.Member, error) {
	target, err := s.chat.GetMemberByID(c.Request().Context(), recordID(database.Members, c.Param("memberId")))
	if err != nil || !target.OK() {
		return nil, nil, rejected(s, c, target, err)
	}

	actor, err := s.requireRole(c, target.Data.ServerId, models.RoleGuest)
	if err != nil {
		return nil, nil, err
	}
	return actor, target.Data, nil
}

func (s *Server) HandlerChangeRole(c echo.Context) error {
	body := new(roleBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when changing the role.")
	}

	actor, target, err := s.actorAndTarget(c)
	if err != nil {
		return err
	}

	res, err := s.chat.ChangeMemberRole(c.Request().Context(), actor.ID, target.ID, body.Role)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerKickMember(c echo.Context) error {
	actor, target, err := s.actorAndTarget(c)
	if err != nil {
		return err
	}

	res, err := s.chat.KickMember(c.Request().Context(), actor.ID, target.ID)
	return respond(s, c, http.StatusOK, res, err)
}
