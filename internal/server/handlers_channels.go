package server

import (
	"hudori/internal/chat"
	"hudori/internal/database"
	"hudori/internal/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

type createChannelBody struct {
	Name        string `json:"name"`
	ChannelType string `json:"channel_type"`
}

// channelParam loads the :channelId channel.
func (s *Server) channelParam(c echo.Context) (*models.Channel, error) {
	res, err := s.chat.GetChannelByID(c.Request().Context(), recordID(database.Channels, c.Param("channelId")))
	if err != nil || !res.OK() {
		return nil, rejected(s, c, res, err)
	}
	return res.Data, nil
}

func (s *Server) HandlerChannels(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleGuest); err != nil {
		return err
	}

	res, err := s.chat.GetAllChannelsByServerID(c.Request().Context(), serverID)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerCreateChannel(c echo.Context) error {
	serverID := serverParam(c)
	if _, err := s.requireRole(c, serverID, models.RoleModerator); err != nil {
		return err
	}

	body := new(createChannelBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when creating the channel.")
	}

	res, err := s.chat.CreateChannel(c.Request().Context(), chat.NewChannel{
		Name:      body.Name,
		Type:      body.ChannelType,
		CreatorId: currentProfile(c),
		ServerId:  serverID,
	})
	return respond(s, c, http.StatusCreated, res, err)
}

func (s *Server) HandlerUpdateChannel(c echo.Context) error {
	channel, err := s.channelParam(c)
	if err != nil {
		return err
	}
	if _, err := s.requireRole(c, channel.ServerId, models.RoleModerator); err != nil {
		return err
	}

	body := new(chat.ChannelPatch)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when updating the channel.")
	}

	res, err := s.chat.UpdateChannelByID(c.Request().Context(), channel.ID, *body)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteChannel(c echo.Context) error {
	channel, err := s.channelParam(c)
	if err != nil {
		return err
	}
	if _, err := s.requireRole(c, channel.ServerId, models.RoleModerator); err != nil {
		return err
	}

	res, err := s.chat.DeleteChannelByID(c.Request().Context(), channel.ID)
	return respond(s, c, http.StatusOK, res, err)
}
