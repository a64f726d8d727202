package auth

import (
	"hudori/internal/config"
	"hudori/internal/utils"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

// NewCookieStore builds the session store from config. Without a configured
// secret a random one is used, so sessions do not survive a restart.
func NewCookieStore(cfg config.Session) *sessions.CookieStore {
	secret := cfg.Secret
	if secret == "" {
		generated, err := utils.GenerateRandomId(32)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate a session secret")
		}
		log.Warn().Msg("SESSION_SECRET is not set, using a random session secret")
		secret = generated
	}

	store := sessions.NewCookieStore([]byte(secret))

	store.MaxAge(cfg.MaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Secure

	return store
}
