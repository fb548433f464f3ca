package handlers

import (
	"photo-manager/internal/database"
	"photo-manager/internal/media"
	"photo-manager/internal/startup"
)

type Handlers struct {
	db     *database.Database
	thumbs *media.Generator
	config *startup.Config
}

func New(db *database.Database, thumbs *media.Generator, config *startup.Config) *Handlers {
	return &Handlers{
		db:     db,
		thumbs: thumbs,
		config: config,
	}
}
