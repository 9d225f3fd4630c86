package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docdex/goquery"
	"github.com/fwojciec/docdex/htmltomarkdown"
	dochttp "github.com/fwojciec/docdex/http"
	"github.com/fwojciec/docdex/rod"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docprobe"),
		kong.Description("Probe a documentation page for JavaScript-rendering needs and preview symbol extraction"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	// Wire dependencies
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	timeout := cli.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpFetcher := dochttp.NewFetcher(dochttp.WithTimeout(timeout))
	defer httpFetcher.Close()
	deps.HTTP = httpFetcher

	if !cli.NoBrowser {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --no-browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer rodFetcher.Close()
		deps.Browser = rodFetcher
	}

	deps.Parser = goquery.NewParser()
	deps.Renderer = htmltomarkdown.NewRenderer()

	cmd := &ProbeCmd{
		URL:       cli.URL,
		Anchor:    cli.Anchor,
		Group:     cli.Group,
		NoBrowser: cli.NoBrowser,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL       string        `arg:"" required:"" help:"Documentation page URL to probe"`
	Anchor    string        `arg:"" optional:"" help:"Anchor id to preview extraction for"`
	Group     string        `default:"function" help:"Symbol group used for extraction rules"`
	Timeout   time.Duration `short:"t" default:"10s" help:"Fetch timeout per request"`
	NoBrowser bool          `help:"Skip the browser comparison and fetch with plain HTTP only"`
}
