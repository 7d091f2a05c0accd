package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/internal/config"
	"github.com/reoring/skema/internal/server"
	"github.com/reoring/skema/orion/actions"
	"github.com/reoring/skema/orion/core"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// registry returns the schemas served by the CLI. Action schemas register
// themselves in core.Registry when package actions is initialized.
func registry() *skema.Registry {
	_ = actions.All()
	return core.Registry
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "skema: %v\n", err)
		return 1
	}
	i18n.SetLanguage(cfg.Lang)

	switch args[0] {
	case "schemas":
		return schemasCmd(stdout)
	case "jsonschema":
		return jsonSchemaCmd(args[1:], stdout, stderr)
	case "validate":
		return validateCmd(args[1:], cfg, stdout, stderr)
	case "serve":
		return serveCmd(args[1:], cfg, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "skema CLI\n\nUsage:\n  skema schemas\n  skema jsonschema NAME\n  skema validate -schema NAME [-format json|yaml] [-shallow] FILE|-\n  skema serve [-addr :8080]\n\nEnvironment:\n  SKEMA_ADDR, SKEMA_LOG_LEVEL, SKEMA_LOG_FORMAT, SKEMA_LANG, SKEMA_FAIL_FAST")
}

func schemasCmd(stdout io.Writer) int {
	reg := registry()
	for _, name := range reg.Names() {
		s, _ := reg.Lookup(name)
		if p := s.Parent(); p != nil {
			fmt.Fprintf(stdout, "%s\t%s\t(from %s)\n", name, strings.Join(s.FieldNames(), ","), p.Name())
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\n", name, strings.Join(s.FieldNames(), ","))
	}
	return 0
}

func jsonSchemaCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: skema jsonschema NAME")
		return 2
	}
	s, ok := registry().Lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "skema: unknown schema %q\n", args[0])
		return 1
	}
	return writeJSON(stdout, stderr, s.JSONSchema())
}

func validateCmd(args []string, cfg config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var name, format string
	var shallow bool
	fs.StringVar(&name, "schema", "", "schema name")
	fs.StringVar(&format, "format", "", "input format: json or yaml (default from file extension)")
	fs.BoolVar(&shallow, "shallow", false, "keep nested instances unexpanded (debug output)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	s, ok := registry().Lookup(name)
	if !ok {
		fmt.Fprintf(stderr, "skema: unknown schema %q\n", name)
		return 1
	}
	path := fs.Arg(0)
	data, err := readInput(path)
	if err != nil {
		fmt.Fprintf(stderr, "skema: %v\n", err)
		return 1
	}
	var src skema.Source
	switch detectFormat(format, path) {
	case "yaml":
		src = skema.YAMLBytes(data)
	default:
		src = skema.JSONBytes(data)
	}
	ctx := skema.WithFailFast(context.Background(), cfg.FailFast)
	inst, err := skema.ConstructFrom(ctx, s, src)
	if err != nil {
		if iss, ok := skema.AsIssues(err); ok {
			for _, it := range iss {
				fmt.Fprintf(stderr, "%s\t%s\t%s\n", it.Path, it.Code, it.Message)
			}
			return 1
		}
		fmt.Fprintf(stderr, "skema: %v\n", err)
		return 1
	}
	if shallow {
		fmt.Fprintf(stdout, "%v\n", inst.Serialize(skema.SerializeOpt{Shallow: true}))
		return 0
	}
	return writeJSON(stdout, stderr, inst.Serialize())
}

func serveCmd(args []string, cfg config.Config, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logger := cfg.Logger(os.Stdout)
	srv := server.New(registry(), server.Options{Logger: logger, FailFast: cfg.FailFast})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("input file not found: %s", path)
		}
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func detectFormat(flagValue, path string) string {
	if flagValue != "" {
		return strings.ToLower(flagValue)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "skema: encode: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}
