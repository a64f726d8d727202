package server

import (
	"hudori/internal/database"
	"net/http"

	"github.com/labstack/echo/v4"
)

type AddFriendBody struct {
	ReceiverId       string `json:"receiver_id"`
	ReceiverUsername string `json:"receiver_username"`
}

func (s *Server) HandlerFriends(c echo.Context) error {
	res, err := s.chat.GetFriendsByProfileID(c.Request().Context(), currentProfile(c))
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerAddFriend(c echo.Context) error {
	ctx := c.Request().Context()

	body := new(AddFriendBody)
	if err := c.Bind(body); err != nil {
		return badRequest(c, "An error occured when adding your friend.")
	}

	receiverID := body.ReceiverId
	if receiverID == "" && body.ReceiverUsername != "" {
		receiver, err := s.chat.GetProfileByUsername(ctx, body.ReceiverUsername)
		if err != nil || !receiver.OK() {
			return respond(s, c, http.StatusOK, receiver, err)
		}
		receiverID = receiver.Data.ID
	}

	res, err := s.chat.SendFriendRequest(ctx, currentProfile(c), receiverID)
	return respond(s, c, http.StatusCreated, res, err)
}

func (s *Server) HandlerAcceptFriend(c echo.Context) error {
	id, err := s.receivedRequest(c)
	if err != nil {
		return err
	}

	res, err := s.chat.AcceptFriendRequest(c.Request().Context(), id)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeclineFriend(c echo.Context) error {
	id, err := s.receivedRequest(c)
	if err != nil {
		return err
	}

	res, err := s.chat.DeclineFriendRequest(c.Request().Context(), id)
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteFriend(c echo.Context) error {
	ctx := c.Request().Context()
	me := currentProfile(c)

	friendship, err := s.chat.GetFriendshipByID(ctx, recordID(database.Friends, c.Param("friendshipId")))
	if err != nil || !friendship.OK() {
		return respond(s, c, http.StatusOK, friendship, err)
	}
	if friendship.Data.Sender != me && friendship.Data.Receiver != me {
		return echo.NewHTTPError(http.StatusForbidden, "Not part of this friendship.")
	}

	res, err := s.chat.DeleteFriend(ctx, friendship.Data.ID)
	return respond(s, c, http.StatusOK, res, err)
}

// receivedRequest resolves the :friendshipId param and checks the signed-in
// profile is the one the request was sent to.
func (s *Server) receivedRequest(c echo.Context) (string, error) {
	friendship, err := s.chat.GetFriendshipByID(c.Request().Context(), recordID(database.Friends, c.Param("friendshipId")))
	if err != nil || !friendship.OK() {
		return "", rejected(s, c, friendship, err)
	}
	if friendship.Data.Receiver != currentProfile(c) {
		return "", echo.NewHTTPError(http.StatusForbidden, "Only the receiver can answer a friend request.")
	}
	return friendship.Data.ID, nil
}
