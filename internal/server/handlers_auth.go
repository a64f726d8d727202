package server

import (
	"context"
	"hudori/internal/auth"
	"hudori/internal/chat"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markbates/goth/gothic"
)

// withProvider hands the :provider path param to gothic through the request
// context.
func withProvider(c echo.Context) *http.Request {
	ctx := context.WithValue(c.Request().Context(), gothic.ProviderParamKey, c.Param("provider"))
	return c.Request().WithContext(ctx)
}

func (s *Server) ProviderLoginHandler(c echo.Context) error {
	req := withProvider(c)

	if user, err := gothic.CompleteUserAuth(c.Response(), req); err == nil {
		return s.signIn(c, auth.Identity(user))
	}

	gothic.BeginAuthHandler(c.Response(), req)
	return nil
}

func (s *Server) AuthCallbackHandler(c echo.Context) error {
	user, err := gothic.CompleteUserAuth(c.Response(), withProvider(c))
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", c.Param("provider")).Msg("oauth callback failed")
		return c.Redirect(http.StatusTemporaryRedirect, s.cfg.FrontendUrl+"/connect")
	}

	return s.signIn(c, auth.Identity(user))
}

// signIn creates or refreshes the profile behind an identity and stores it in
// the session.
func (s *Server) signIn(c echo.Context, identity chat.IdentityEvent) error {
	res, err := s.chat.SyncIdentity(c.Request().Context(), identity)
	if err != nil || !res.OK() {
		return respond(s, c, http.StatusOK, res, err)
	}

	if err := s.auth.StoreProfileSession(c, res.Data.ID); err != nil {
		s.logger.Error().Err(err).Msg("failed to store session")
		return err
	}

	s.logger.Info().Str("profile_id", res.Data.ID).Msg("signed in")
	return c.Redirect(http.StatusTemporaryRedirect, s.cfg.FrontendUrl+"/chat")
}

func (s *Server) LogoutHandler(c echo.Context) error {
	if err := gothic.Logout(c.Response(), withProvider(c)); err != nil {
		s.logger.Warn().Err(err).Msg("oauth logout failed")
	}

	if err := s.auth.RemoveProfileSession(c); err != nil {
		return err
	}

	return c.Redirect(http.StatusTemporaryRedirect, s.cfg.FrontendUrl+"/connect")
}

// HandlerIdentityWebhook applies profile lifecycle events pushed by the
// identity provider.
func (s *Server) HandlerIdentityWebhook(c echo.Context) error {
	if !secretMatches(s.cfg.Auth.WebhookSecret, c.Request().Header.Get("X-Webhook-Secret")) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid webhook secret")
	}

	event := new(chat.IdentityEvent)
	if err := c.Bind(event); err != nil {
		return badRequest(c, "Invalid identity event.")
	}

	res, err := s.chat.HandleIdentityEvent(c.Request().Context(), *event)
	if err == nil && !res.OK() {
		s.logger.Warn().Str("type", string(event.Type)).Str("user_id", event.UserId).Str("reason", res.Error).Msg("identity event rejected")
	}
	return respond(s, c, http.StatusOK, res, err)
}

func (s *Server) HandlerDeleteAllProfiles(c echo.Context) error {
	res, err := s.chat.DeleteAllProfiles(c.Request().Context(), c.Request().Header.Get("X-Admin-Secret"))
	return respond(s, c, http.StatusOK, res, err)
}
