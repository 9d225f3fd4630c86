package main

import (
	"context"
	"io"

	"github.com/fwojciec/docdex"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	HTTP     docdex.Fetcher
	Browser  docdex.Fetcher // nil when the browser comparison is disabled
	Parser   docdex.PageParser
	Renderer docdex.FragmentRenderer
}

// ProbeCmd handles the probe operation.
type ProbeCmd struct {
	URL       string
	Anchor    string
	Group     string
	NoBrowser bool
}
