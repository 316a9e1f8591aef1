package models

import "errors"

var (
	ErrAuth      = errors.New("sink authentication failed")
	ErrFetch     = errors.New("feed fetch failed")
	ErrSinkRead  = errors.New("sink read failed")
	ErrSinkWrite = errors.New("sink write failed")
	ErrLockHeld  = errors.New("sync lock held by another run")
)
