// Command reqline parses request-line text blocks and serves the parse API.
//
//	reqline parse [FILE]      parse FILE (or stdin) and print JSON
//	reqline validate [FILE]   print "ok" or the first format error
//	reqline serve             run the HTTP API
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shapestone/shape-reqline/internal/config"
	"github.com/shapestone/shape-reqline/internal/logging"
	"github.com/shapestone/shape-reqline/internal/server"
	"github.com/shapestone/shape-reqline/pkg/reqline"
)

const usage = `usage: reqline <command> [flags] [FILE]

commands:
  parse      parse FILE (or stdin) and print the request as JSON
  validate   check FILE (or stdin) and print "ok" or the error
  serve      run the HTTP API
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, args := args[0], args[1:]
	fs := config.Flags("reqline " + cmd)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	switch cmd {
	case "parse":
		return runParse(fs.Args(), stdin, stdout, stderr)
	case "validate":
		return runValidate(fs.Args(), stdin, stdout, stderr)
	case "serve":
		return runServe(fs, stderr)
	default:
		fmt.Fprintf(stderr, "reqline: unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

func input(args []string, stdin io.Reader) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func runParse(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r, done, err := input(args, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}
	defer done()

	req, err := reqline.ParseReader(r)
	if err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}
	return 0
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r, done, err := input(args, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}
	defer done()

	if err := reqline.ValidateReader(r); err != nil {
		fmt.Fprintf(stdout, "%v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func runServe(fs *pflag.FlagSet, stderr io.Writer) int {
	loader := config.NewLoader()
	if err := loader.BindFlags(fs); err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}

	log, level, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "reqline: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	err = loader.Watch(func(next *config.Config) {
		if err := logging.SetLevel(level, next.Log.Level); err != nil {
			log.Warn("config reload", zap.Error(err))
			return
		}
		log.Info("config reloaded", zap.String("log.level", next.Log.Level))
	}, func(err error) {
		log.Warn("config reload", zap.Error(err))
	})
	if err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		log.Warn("config watch", zap.Error(err))
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("start", zap.Error(err))
		return 1
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Error("serve", zap.Error(err))
		return 1
	}
	return 0
}
