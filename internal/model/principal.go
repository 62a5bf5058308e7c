package model

// Principal identifies the authenticated worker on protected routes.
type Principal struct {
	UserID string
	Name   string
}
