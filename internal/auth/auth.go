package auth

import (
	"errors"
	"fmt"
	"hudori/internal/config"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
)

const (
	sessionName = "session"
	profileKey  = "profile_id"
)

var ErrNoSession = errors.New("user is not authenticated")

// Service keeps the signed-in profile id in a cookie session.
type Service interface {
	StoreProfileSession(c echo.Context, profileID string) error
	GetProfileSession(c echo.Context) (string, error)
	RemoveProfileSession(c echo.Context) error
}

type service struct {
	store sessions.Store
}

// New registers the OAuth providers that have credentials configured and
// shares store with gothic.
func New(cfg config.Auth, store sessions.Store) Service {
	gothic.Store = store

	var providers []goth.Provider
	if cfg.GoogleKey != "" {
		providers = append(providers, google.New(cfg.GoogleKey, cfg.GoogleSecret, callbackUrl(cfg, "google"), "email", "profile"))
	}
	if cfg.DiscordKey != "" {
		providers = append(providers, discord.New(cfg.DiscordKey, cfg.DiscordSecret, callbackUrl(cfg, "discord"), discord.ScopeIdentify, discord.ScopeEmail))
	}
	goth.UseProviders(providers...)

	return &service{store: store}
}

func callbackUrl(cfg config.Auth, provider string) string {
	return fmt.Sprintf("%s/%s/callback", strings.TrimSuffix(cfg.CallbackUrl, "/"), provider)
}

func (s *service) GetProfileSession(c echo.Context) (string, error) {
	session, err := s.store.Get(c.Request(), sessionName)
	if err != nil {
		return "", err
	}

	profileID, _ := session.Values[profileKey].(string)
	if profileID == "" {
		return "", ErrNoSession
	}

	return profileID, nil
}

func (s *service) StoreProfileSession(c echo.Context, profileID string) error {
	// A stale or tampered cookie still yields a fresh session to write into.
	session, _ := s.store.Get(c.Request(), sessionName)
	session.Values[profileKey] = profileID

	return session.Save(c.Request(), c.Response().Writer)
}

func (s *service) RemoveProfileSession(c echo.Context) error {
	session, _ := s.store.Get(c.Request(), sessionName)

	delete(session.Values, profileKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request(), c.Response().Writer)
}
