package web

import (
	"embed"
)

// staticFiles holds the simulator page and its script.
//
//go:embed static/*
var staticFiles embed.FS
