package repository

import "errors"

var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicate    = errors.New("entity already exists")
	ErrUpdateFailed = errors.New("update failed")
)
