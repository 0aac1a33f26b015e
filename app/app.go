package app

import (
	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-swipe/config"
	"github.com/mbolis/quick-swipe/database"
)

type App struct {
	*database.Store
	*oauth.BearerServer
	config.Config
}
