package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/wuxiang/jsontok/internal/analyzer"
	"github.com/wuxiang/jsontok/internal/config"
	"github.com/wuxiang/jsontok/internal/errors"
	"github.com/wuxiang/jsontok/internal/formatter"
	"github.com/wuxiang/jsontok/internal/logging"
	"github.com/wuxiang/jsontok/internal/parser"
	"github.com/wuxiang/jsontok/internal/value"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string   `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string   `help:"Path to config file. Defaults to .jsontok.yml in the current or a parent directory." short:"c" type:"path"`
	Mode        string   `help:"Output mode: canonical, compact or pretty." short:"m"`
	KeyCase     string   `help:"Rewrite object keys: keep, camel, lower-camel, snake or kebab." short:"k"`
	Sentinel    bool     `help:"Stop reading input at the first NUL byte." short:"s"`
	MaxSize     string   `help:"Maximum input size, e.g. 64MiB."`
	Stats       bool     `help:"Print statistics about the parsed value instead of the value." short:"S"`
	Workers     int      `help:"Number of files checked concurrently." short:"w"`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
	Files       []string `arg:"" optional:"" help:"JSON files to check. Each file is reported as ok or with its syntax error."`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger log.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsontok"),
		kong.Description("An incremental JSON parser: validate, reformat and inspect JSON documents"),
		kong.UsageOnError(),
	)

	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsontok version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontok --help\n")
		os.Exit(1)
	}
}

// newContext resolves configuration with CLI precedence and builds the logger
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{
		Mode:     CLI.Mode,
		KeyCase:  CLI.KeyCase,
		Sentinel: CLI.Sentinel,
		MaxSize:  CLI.MaxSize,
		Workers:  CLI.Workers,
	}
	if CLI.Debug {
		overrides.LogLevel = "debug"
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, errors.NewConfigError("cannot set up logging", err)
	}
	if configPath != "" {
		level.Debug(logger).Log("msg", "loaded config", "path", configPath)
	}

	return &Context{Debug: CLI.Debug, Config: cfg, Logger: logger}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	if ctx.Logger == nil {
		ctx.Logger = log.NewNopLogger()
	}

	if len(CLI.Files) > 0 {
		return check(ctx, CLI.Files, os.Stdout)
	}

	// 1. Parse JSON input
	root, err := parseInput(ctx)
	if err != nil {
		return err
	}

	// 2. Report statistics if requested
	if CLI.Stats {
		return writeOutput(analyzer.NewAnalyzer().Analyze(root).Report())
	}

	// 3. Render the value
	out, err := formatter.NewFormatter(ctx.Config.FormatOptions()).Format(root)
	if err != nil {
		return err
	}
	return writeOutput(out + "\n")
}

func parserOptions(ctx *Context) []parser.Option {
	opts := []parser.Option{
		parser.WithChunkSize(int(ctx.Config.Input.ChunkSize)),
		parser.WithMaxSize(int64(ctx.Config.Input.MaxSize)),
		parser.WithLogger(ctx.Logger),
	}
	if ctx.Config.Input.Sentinel {
		opts = append(opts, parser.WithSentinel())
	}
	return opts
}

// check parses every file concurrently and reports each one in argument order
func check(ctx *Context, files []string, w io.Writer) error {
	results := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(ctx.Config.Check.Workers)
	for i, file := range files {
		g.Go(func() error {
			_, err := parser.ParseFile(file, parserOptions(ctx)...)
			results[i] = err
			level.Debug(ctx.Logger).Log("msg", "checked file", "file", file, "ok", err == nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.NewInputError("failed to check files", err)
	}

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	failed := 0
	for i, file := range files {
		if results[i] == nil {
			fmt.Fprintf(w, "%s  %s\n", ok("ok"), file)
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s: %s\n", fail("FAIL"), file, errors.UserFriendlyError(results[i]))
	}

	level.Info(ctx.Logger).Log("msg", "check finished", "files", len(files), "failed", failed)
	if failed > 0 {
		return errors.NewParsingError(fmt.Sprintf("%d of %d files are invalid", failed, len(files)), errors.ErrInvalidJSON)
	}
	return nil
}

// parseInput reads JSON from file or stdin
func parseInput(ctx *Context) (*value.Value, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input, parserOptions(ctx)...)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput(ctx)
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Piped input is parsed while it streams in
	return parser.Parse(os.Stdin, parserOptions(ctx)...)
}

// writeOutput writes text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(os.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (*value.Value, error) {
	fmt.Fprintln(os.Stderr, "jsontok Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData, parserOptions(ctx)...)
}
