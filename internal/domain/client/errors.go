package client

import "errors"

var (
	ErrClientNotFound = errors.New("registered client not found")
	ErrClientIDExists = errors.New("client id already registered")
)
