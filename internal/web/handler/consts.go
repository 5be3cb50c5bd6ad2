package handler

import "errors"

const (
	// APIPath is the prefix of every JSON route.
	APIPath = "/api"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"
)

// ErrNilDeps is returned by Init when a dependency is missing.
var ErrNilDeps = errors.New("handler dependencies are incomplete")
