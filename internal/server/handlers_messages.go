package server

import (
	"hudori/internal/chat"
	"hudori/internal/database"
	"hudori/internal/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

type messageBody struct {
	Content string `json:"content"`
	FileUrl string `json:"file_url"`
}

func (s *Server) HandlerTimeline(c echo.Context) error {
	channel, err := s.channelParam(c)
	if err != nil {
		return err
	}
	if _, err := s.requireRole(c, channel.ServerId, models.RoleGuest); err != nil {
		return err
	}

	res, err := s.chat.GetChannelTimeline(c.Request().Context(), channel.ID)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerSendMessage(c echo.Context) error {
	channel, err := s.channelParam(c)
	if err != nil {
		return err
	}
	actor, err := s.requireRole(c, channel.ServerId, models.RoleGuest)
	if err != nil {
		return err
	}

	body := new(messageBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when sending the message.")
	}

	res, err := s.chat.CreateMessage(c.Request().Context(), chat.NewMessage{
		Content:   body.Content,
		FileUrl:   body.FileUrl,
		MemberId:  actor.ID,
		ChannelId: channel.ID,
	})
	return respond(s, c, http.StatusCreated, res, err)
}

// messageActor loads the :messageId message and the signed-in profile's
// membership in the server it was posted to.
func (s *Server) messageActor(c echo.Context) (*models.Message, *models.Member, error) {
	ctx := c.Request().Context()

	msg, err := s.chat.GetMessageByID(ctx, recordID(database.Messages, c.Param("messageId")))
	if err != nil || !msg.OK() {
		return nil, nil, rejected(s, c, msg, err)
	}
	server, err := s.chat.GetServerByChannelID(ctx, msg.Data.ChannelId)
	if err != nil || !server.OK() {
		return nil, nil, rejected(s, c, server, err)
	}

	actor, err := s.requireRole(c, server.Data.ID, models.RoleGuest)
	if err != nil {
		return nil, nil, err
	}
	return msg.Data, actor, nil
}

func (s *Server) HandlerEditMessage(c echo.Context) error {
	body := new(messageBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when editing the message.")
	}

	msg, actor, err := s.messageActor(c)
	if err != nil {
		return err
	}

	if msg.MemberId != actor.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can edit this message.")
	}

	res, err := s.chat.UpdateMessageByID(c.Request().Context(), msg.ID, body.Content)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteMessage(c echo.Context) error {
	msg, actor, err := s.messageActor(c)
	if err != nil {
		return err
	}

	// Authors delete their own messages, moderators anyone's.
	if msg.MemberId != actor.ID && !actor.Role.Outranks(models.RoleGuest) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author or a moderator can delete this message.")
	}

	res, err := s.chat.DeleteMessageByID(c.Request().Context(), msg.ID, actor.ID)
	return respond(s, c, http.StatusOK, res, err)
}

// Direct messages

func (s *Server) HandlerConversation(c echo.Context) error {
	other := recordID(database.Profiles, c.Param("profileId"))

	res, err := s.chat.GetConversation(c.Request().Context(), currentProfile(c), other)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerSendDirectMessage(c echo.Context) error {
	body := new(messageBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when sending the message.")
	}

	res, err := s.chat.CreateDirectMessage(c.Request().Context(), chat.NewDirectMessage{
		Content:  body.Content,
		FileUrl:  body.FileUrl,
		Sender:   currentProfile(c),
		Receiver: recordID(database.Profiles, c.Param("profileId")),
	})
	return respond(s, c, http.StatusCreated, res, err)
}

func (s *Server) HandlerEditDirectMessage(c echo.Context) error {
	body := new(messageBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when editing the message.")
	}

	id := recordID(database.DirectMessages, c.Param("messageId"))
	res, err := s.chat.UpdateDirectMessageByID(c.Request().Context(), id, currentProfile(c), body.Content)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteDirectMessage(c echo.Context) error {
	id := recordID(database.DirectMessages, c.Param("messageId"))
	res, err := s.chat.DeleteDirectMessageByID(c.Request().Context(), id, currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}
