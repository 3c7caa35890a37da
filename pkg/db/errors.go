package db

import "errors"

var (
	ErrEmptyURL         = errors.New("db: empty connection URL")
	ErrInvalidConfig    = errors.New("db: invalid connection configuration")
	ErrConnectionFailed = errors.New("db: failed to establish connection")
	ErrUnhealthy        = errors.New("db: healthcheck failed")
	ErrMigrate          = errors.New("db: failed to apply migrations")
)
