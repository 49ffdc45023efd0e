package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/printer"
	"github.com/mcncl/jsontree/internal/tokenizer"
)

// Version information
const (
	Version = "0.1.0"
)

const stdinName = "-"

// CLI defines the command-line interface
var CLI struct {
	Config   string           `help:"Path to a config file. Defaults to the nearest .jsontree.yml." short:"c" type:"path"`
	Mode     string           `help:"Entry point: document, object or array." short:"m"`
	MaxDepth int              `help:"Maximum nesting depth; negative disables the limit." name:"max-depth"`
	Color    string           `help:"Colorize output: auto, always or never."`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`

	Parse  ParseCmd  `cmd:"" default:"withargs" help:"Parse JSON documents and print their value tree."`
	Tokens TokensCmd `cmd:"" help:"Print the token stream of a JSON document."`
	Stats  StatsCmd  `cmd:"" help:"Print shape statistics of JSON documents."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Config *config.Config
	Logger log.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Color  bool
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jsontree"),
		kong.Description("Parse JSON documents into value trees"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	app, err := newContext(os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = ctx.Run(app)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontree --help\n")
		os.Exit(1)
	}
}

// newContext resolves configuration from the config file and global flags.
func newContext(stdin io.Reader, stdout, stderr *os.File) (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		Mode:     CLI.Mode,
		MaxDepth: CLI.MaxDepth,
		Color:    CLI.Color,
		Debug:    CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger := newLogger(stderr, cfg.Dev.Debug)
	if configPath != "" {
		level.Debug(logger).Log("msg", "loaded config", "path", configPath)
	}

	return &Context{
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Stdout: stdout,
		Color:  useColor(cfg.Output.Color, stdout),
	}, nil
}

func newLogger(w io.Writer, debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	if debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

func useColor(setting string, f *os.File) bool {
	switch setting {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// document is one parsed input.
type document struct {
	name string
	size int
	root models.Value
}

// ParseCmd parses documents and prints their trees.
type ParseCmd struct {
	Files []string `arg:"" optional:"" help:"JSON files to parse. Reads stdin when omitted or '-'." type:"path"`
	Jobs  int      `help:"Number of files parsed concurrently." short:"j" default:"4"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	docs, err := ctx.parseAll(cmd.Files, cmd.Jobs)
	if err != nil {
		return err
	}

	p := printer.New(ctx.Stdout, ctx.printerOptions())
	header := ctx.colored(color.Bold)
	for i, doc := range docs {
		if len(docs) > 1 {
			if i > 0 {
				fmt.Fprintln(ctx.Stdout)
			}
			fmt.Fprintln(ctx.Stdout, header.Sprintf("==> %s <==", doc.name))
		}
		if err := p.Print(doc.root); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	return nil
}

// TokensCmd prints the token stream of one document.
type TokensCmd struct {
	File string `arg:"" optional:"" help:"JSON file to tokenize. Reads stdin when omitted or '-'." type:"path"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	name := cmd.File
	if name == "" {
		name = stdinName
	}
	data, err := ctx.readInput(name)
	if err != nil {
		return err
	}

	tokens, err := tokenizer.New(bytes.NewReader(data)).Tokenize()
	if err != nil {
		return errors.NewParsingError(fmt.Sprintf("failed to tokenize '%s'", displayName(name)), err)
	}
	level.Debug(ctx.Logger).Log("msg", "tokenized input", "input", displayName(name), "tokens", len(tokens))

	if err := printer.New(ctx.Stdout, ctx.printerOptions()).PrintTokens(tokens); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// StatsCmd prints shape statistics for each document.
type StatsCmd struct {
	Files []string `arg:"" optional:"" help:"JSON files to inspect. Reads stdin when omitted or '-'." type:"path"`
	Jobs  int      `help:"Number of files parsed concurrently." short:"j" default:"4"`
	Paths bool     `help:"List the path and kind of every leaf value." short:"p"`
}

// Run executes the stats command
func (cmd *StatsCmd) Run(ctx *Context) error {
	docs, err := ctx.parseAll(cmd.Files, cmd.Jobs)
	if err != nil {
		return err
	}

	w := ctx.Stdout
	bold := ctx.colored(color.Bold)
	a := analyzer.NewAnalyzer()
	for _, doc := range docs {
		stats := a.Analyze(models.IntermediateRepresentation{Root: doc.root})

		bold.Fprintf(w, "%s:\n", doc.name)
		fmt.Fprintf(w, "\tsize: %v, root: %s, depth: %d\n",
			humanize.Bytes(uint64(doc.size)),
			doc.root.Kind(),
			stats.MaxDepth,
		)
		fmt.Fprintf(w, "\tobjects: %s, arrays: %s, members: %s, elements: %s\n",
			humanize.Comma(int64(stats.Objects)),
			humanize.Comma(int64(stats.Arrays)),
			humanize.Comma(int64(stats.Members)),
			humanize.Comma(int64(stats.Elements)),
		)
		fmt.Fprintf(w, "\tstrings: %s (timestamps: %d, uuids: %d), numbers: %s (integers: %d, floats: %d), booleans: %s, nulls: %s\n",
			humanize.Comma(int64(stats.Strings)), stats.Timestamps, stats.UUIDs,
			humanize.Comma(int64(stats.Numbers)), stats.Integers, stats.Floats,
			humanize.Comma(int64(stats.Booleans)),
			humanize.Comma(int64(stats.Nulls)),
		)
		_, err := fmt.Fprintf(w, "\twidest object: %d, longest array: %d\n", stats.WidestObject, stats.LongestArray)
		if err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}

		if cmd.Paths {
			for _, entry := range a.Entries() {
				fmt.Fprintf(w, "\t%s\t%s\n", entry.Path, entry.Kind)
			}
		}
	}
	return nil
}

// parseAll parses every named input with bounded concurrency. Results keep
// argument order and the first failure in argument order is returned.
func (c *Context) parseAll(names []string, jobs int) ([]document, error) {
	if len(names) == 0 {
		names = []string{stdinName}
	}

	docs := make([]document, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			docs[i], errs[i] = c.parseInput(name)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (c *Context) parseInput(name string) (document, error) {
	data, err := c.readInput(name)
	if err != nil {
		return document{}, err
	}

	logger := log.With(c.Logger, "input", displayName(name))
	p := parser.New(tokenizer.New(bytes.NewReader(data)),
		parser.WithLogger(logger),
		parser.WithMaxDepth(c.Config.Parser.MaxDepth),
	)

	var root models.Value
	switch c.Config.Parser.Mode {
	case config.ModeObject:
		var obj *models.Object
		if obj, err = p.ParseObject(); err == nil {
			root = obj
		}
	case config.ModeArray:
		var arr models.Array
		if arr, err = p.ParseArray(); err == nil {
			root = arr
		}
	default:
		root, err = p.Parse()
	}
	if err != nil {
		return document{}, errors.NewParsingError(fmt.Sprintf("failed to parse '%s'", displayName(name)), err)
	}

	level.Debug(logger).Log("msg", "parsed input", "bytes", len(data), "root", root.Kind())
	return document{name: displayName(name), size: len(data), root: root}, nil
}

// readInput reads a named file, or stdin for "-".
func (c *Context) readInput(name string) ([]byte, error) {
	var data []byte
	var err error
	if name == stdinName {
		if f, ok := c.Stdin.(*os.File); ok {
			if info, statErr := f.Stat(); statErr == nil && info.Mode()&os.ModeCharDevice != 0 {
				return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
			}
		}
		data, err = io.ReadAll(c.Stdin)
		if err != nil {
			return nil, errors.NewInputError("failed to read from stdin", err)
		}
	} else {
		data, err = os.ReadFile(name)
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", name), errors.ErrFileNotFound)
		}
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", name), err)
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("input '%s' is empty", displayName(name)), errors.ErrEmptyInput)
	}
	return data, nil
}

func (c *Context) printerOptions() printer.Options {
	return printer.Options{
		Indent:         c.Config.Output.Indent,
		MaxStringWidth: c.Config.Output.MaxStringWidth,
		Color:          c.Color,
	}
}

func (c *Context) colored(attrs ...color.Attribute) *color.Color {
	col := color.New(attrs...)
	if c.Color {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	return col
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}
