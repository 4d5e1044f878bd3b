// stblocks is the command line companion for SparkType block content. It
// renders, validates, normalizes and exports blockmark files, and serves the
// editor bridge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/sparktype-project/sparkblocks"
	"github.com/sparktype-project/sparkblocks/blockmark"
	"github.com/sparktype-project/sparkblocks/internal/config"
	"github.com/sparktype-project/sparkblocks/pkg/bridge"
	"github.com/sparktype-project/sparkblocks/pkg/content"
	"github.com/sparktype-project/sparkblocks/pkg/export"
	"github.com/sparktype-project/sparkblocks/pkg/logger"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
	"github.com/sparktype-project/sparkblocks/pkg/tree"
)

var (
	configPath  = flag.String("config", "", "path to config file (default: stblocks.toml)")
	manifestDir = flag.String("manifests", "", "site manifest directory (overrides config)")
	exportHTML  = flag.Bool("html", false, "export: emit HTML instead of markdown")
	writeBack   = flag.Bool("w", false, "fmt: rewrite files in place instead of printing")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "show":
		requireArgs(2, "stblocks show <file>")
		cmdShow(flag.Arg(1))
	case "validate":
		cmdValidate(flag.Args()[1:])
	case "export":
		requireArgs(2, "stblocks export [-html] <file>")
		cmdExport(flag.Arg(1))
	case "fmt":
		requireArgs(2, "stblocks fmt [-w] <file>...")
		cmdFmt(flag.Args()[1:])
	case "serve":
		cmdServe()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `stblocks - SparkType block content tool

Usage: stblocks [options] <command> [args]

Commands:
  show <file>          Render a content file in the terminal
  validate [file...]   Validate content files (defaults to the content dir)
  export <file>        Export a content file as markdown (or -html)
  fmt <file>...        Normalize blockmark layout (-w rewrites in place)
  serve                Run the editor bridge
  help                 Show this help message

Options:
  -config <path>       Path to config file (default: stblocks.toml)
  -manifests <dir>     Site manifest directory (overrides config)
  -html                Export HTML instead of markdown
  -w                   fmt: rewrite files in place`)
}

func requireArgs(n int, usageLine string) {
	if flag.NArg() < n {
		fmt.Fprintln(os.Stderr, "Usage: "+usageLine)
		os.Exit(1)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "stblocks: "+format+"\n", args...)
	os.Exit(1)
}

// toolchain bundles what every command needs: the effective config, the
// manifest registry with site overrides applied, and a codec over it.
type toolchain struct {
	cfg   *config.Config
	reg   *manifest.Registry
	codec *blockmark.Codec
	log   logger.Logger
}

func newToolchain() *toolchain {
	path := *configPath
	if path == "" {
		path = "stblocks.toml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		die("load config: %v", err)
	}

	log := newLogger(cfg.Logging.Level)
	reg := buildRegistry(cfg)
	return &toolchain{
		cfg:   cfg,
		reg:   reg,
		codec: blockmark.NewCodec(reg, blockmark.WithLogger(log)),
		log:   log,
	}
}

func newLogger(level string) logger.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
	return logger.FromZerolog(zl)
}

// buildRegistry layers the site manifest directory over the core types. A
// missing directory is only an error when named explicitly on the command
// line.
func buildRegistry(cfg *config.Config) *manifest.Registry {
	dir := *manifestDir
	explicit := dir != ""
	if dir == "" {
		dir = cfg.Site.ManifestDir
	}
	if dir == "" {
		return manifest.CoreRegistry()
	}

	site, err := manifest.LoadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return manifest.CoreRegistry()
		}
		die("load manifests: %v", err)
	}
	return manifest.NewRegistry(append(manifest.CoreManifests(), site...)...)
}

// readContent parses a content file. Files without frontmatter are treated
// as bare blockmark.
func readContent(tc *toolchain, path string) *content.File {
	data, err := os.ReadFile(path)
	if err != nil {
		die("%v", err)
	}
	f, err := content.Parse(tc.codec, string(data))
	if errors.Is(err, content.ErrNoFrontmatter) {
		return &content.File{Meta: map[string]any{}, Blocks: tc.codec.Parse(string(data))}
	}
	if err != nil {
		die("%s: %v", path, err)
	}
	return f
}

func cmdShow(path string) {
	tc := newToolchain()
	f := readContent(tc, path)

	md := export.Markdown(tc.reg, f.Blocks)
	if f.Title != "" {
		md = "# " + f.Title + "\n\n" + md
	}

	rendered, err := renderTerminal(md)
	if err != nil {
		// No usable terminal style; plain markdown still reads fine.
		fmt.Println(md)
		return
	}
	fmt.Print(rendered)
}

func renderTerminal(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func cmdValidate(paths []string) {
	tc := newToolchain()

	if len(paths) == 0 {
		var err error
		paths, err = contentFiles(tc.cfg.Site.ContentDir)
		if err != nil {
			die("scan %s: %v", tc.cfg.Site.ContentDir, err)
		}
		if len(paths) == 0 {
			die("no content files under %s", tc.cfg.Site.ContentDir)
		}
	}

	failed := false
	for _, path := range paths {
		f := readContent(tc, path)
		res := tree.ValidateTree(tc.reg, f.Blocks)
		if res.Valid {
			fmt.Printf("%s: ok (%d blocks)\n", path, len(tree.FlattenIDs(tc.reg, f.Blocks)))
			continue
		}
		failed = true
		for _, be := range res.Errors {
			for _, msg := range be.Errors {
				fmt.Fprintf(os.Stderr, "%s: block %s: %s\n", path, be.BlockID, msg)
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

func contentFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func cmdExport(path string) {
	tc := newToolchain()
	f := readContent(tc, path)

	if *exportHTML {
		html, err := export.HTML(tc.reg, f.Blocks)
		if err != nil {
			die("%s: %v", path, err)
		}
		fmt.Print(html)
		return
	}

	md := export.Markdown(tc.reg, f.Blocks)
	if md != "" {
		md += "\n"
	}
	fmt.Print(md)
}

func cmdFmt(paths []string) {
	tc := newToolchain()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			die("%v", err)
		}
		text := string(data)

		var normalized string
		f, err := content.Parse(tc.codec, text)
		switch {
		case errors.Is(err, content.ErrNoFrontmatter):
			normalized, err = tc.codec.Serialize(tc.codec.Parse(text))
		case err == nil:
			normalized, err = f.Serialize(tc.codec)
		}
		if err != nil {
			die("%s: %v", path, err)
		}

		if !*writeBack {
			fmt.Print(normalized)
			continue
		}
		if normalized == text {
			continue
		}
		if err := os.WriteFile(path, []byte(normalized), 0o644); err != nil {
			die("%v", err)
		}
	}
}

func cmdServe() {
	tc := newToolchain()

	engine := sparkblocks.New(tc.reg, sparkblocks.WithLogger(tc.log))
	srv := bridge.NewServer(engine, bridge.WithLogger(tc.log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := *manifestDir
	if dir == "" {
		dir = tc.cfg.Site.ManifestDir
	}
	if dir != "" {
		if err := srv.WatchManifests(ctx, dir); err != nil {
			tc.log.Warn("manifest watching disabled", "error", err)
		}
	}

	httpServer := &http.Server{Addr: tc.cfg.Bridge.Listen, Handler: srv}
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
		srv.Close()
	}()

	tc.log.Info("bridge listening", "addr", tc.cfg.Bridge.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		die("serve: %v", err)
	}
}
