package main

import (
	"github.com/dmitrymomot/portalsso/pkg/auth"
	"github.com/dmitrymomot/portalsso/pkg/clientip"
	"github.com/dmitrymomot/portalsso/pkg/cookie"
	"github.com/dmitrymomot/portalsso/pkg/featurebase"
	"github.com/dmitrymomot/portalsso/pkg/httpserver"
	"github.com/dmitrymomot/portalsso/pkg/ratelimiter"
	"github.com/dmitrymomot/portalsso/pkg/redirect"
	"github.com/dmitrymomot/portalsso/pkg/redis"
	"github.com/dmitrymomot/portalsso/pkg/session"
)

type appConfig struct {
	Env         string `env:"ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"portalsso"`
	UsersFile   string `env:"USERS_FILE" envDefault:"users.yaml"`

	HTTP        httpserver.Config
	Redirect    redirect.Policy
	Featurebase featurebase.Config
	Cookie      cookie.Config
	Session     session.Config
	Redis       redis.Config
	Google      auth.GoogleOAuthConfig
	ClientIP    clientip.Config
	SignInLimit ratelimiter.Config
}
