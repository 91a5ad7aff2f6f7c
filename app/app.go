package app

import (
	"github.com/go-chi/jwtauth"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"survey-collector/config"
	"survey-collector/store"
)

// App bundles what the handlers need: the persistence interface, the
// session token signer and the startup configuration.
type App struct {
	*store.Store
	TokenAuth *jwtauth.JWTAuth

	// PasswordHashes holds a bcrypt hash per configured admin account,
	// computed once at startup so plaintext passwords never travel past
	// construction.
	PasswordHashes map[string][]byte

	config.Config
}

func New(st *store.Store, cfg config.Config) (App, error) {
	hashes := make(map[string][]byte, len(cfg.Accounts))
	for user, pass := range cfg.Accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			return App{}, errors.Wrapf(err, "hash password for %q", user)
		}
		hashes[user] = hash
	}

	return App{
		Store:          st,
		TokenAuth:      jwtauth.New("HS256", []byte(cfg.SecretKey), nil),
		PasswordHashes: hashes,
		Config:         cfg,
	}, nil
}

// CheckCredentials reports whether user/pass exactly match one
// configured admin account.
func (app App) CheckCredentials(user, pass string) bool {
	hash, ok := app.PasswordHashes[user]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(pass)) == nil
}
