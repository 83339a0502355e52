// Package sqlite implements the coldsweat repository on top of sqlx and the
// modernc sqlite driver.
package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
)

// Ensure Repo implements the Repository interface
var _ coldsweat.Repository = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
