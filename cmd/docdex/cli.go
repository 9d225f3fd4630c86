package main

import (
	"context"
	"io"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/resolve"
	"github.com/fwojciec/docdex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Sources  docdex.SourceService
	Resolver *resolve.Service
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Add     AddCmd     `cmd:"" help:"Register a documentation source"`
	Remove  RemoveCmd  `cmd:"" help:"Remove a registered package"`
	List    ListCmd    `cmd:"" help:"List registered packages"`
	Refresh RefreshCmd `cmd:"" help:"Refetch all inventories and rebuild the symbol table"`
	Get     GetCmd     `cmd:"" help:"Resolve a symbol name and print its documentation"`
	Import  ImportCmd  `cmd:"" help:"Register sources listed in a YAML file"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Package      string `arg:"" help:"Package name, e.g. numpy"`
	URL          string `arg:"" help:"Documentation base URL"`
	InventoryURL string `help:"Inventory URL (defaults to <url>/objects.inv)"`
}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	Package string `arg:"" help:"Package name"`
	Force   bool   `help:"Confirm removal"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// RefreshCmd is the "refresh" subcommand.
type RefreshCmd struct {
	Concurrency int `short:"c" default:"10" help:"Concurrent inventory fetch limit"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Name     string  `arg:"" help:"Symbol name, e.g. dict.get or numpy.ndarray"`
	Plain    bool    `help:"Print raw markdown without terminal rendering"`
	Width    int     `default:"80" help:"Wrap width for terminal rendering"`
	RenderJS bool    `name:"render-js" help:"Render pages in a headless browser"`
	RPS      float64 `name:"rps" default:"4" help:"Page fetches per second per host"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File string `arg:"" help:"YAML file listing sources"`
}
