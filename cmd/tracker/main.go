package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/mind-engage/progress-tracker/internal/config"
	applogger "github.com/mind-engage/progress-tracker/internal/logger"
	"github.com/mind-engage/progress-tracker/internal/report"
)

func main() {
	global := flag.NewFlagSet("tracker", flag.ExitOnError)
	cfgPath := global.String("config", "", "Path to the config file (default ./tracker.yaml or ./config/tracker.yaml).")
	_ = global.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	cli := &commandLine{
		cfg:            cfg,
		logger:         logger,
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		listenAndServe: func(srv *http.Server) error { return srv.ListenAndServe() },
	}
	os.Exit(exitCode(cli.run(global.Args()), logger))
}

// exitCode reports err and flushes the logger; os.Exit skips deferred calls.
func exitCode(err error, logger *zap.Logger) int {
	defer func() { _ = logger.Sync() }()
	if err == nil {
		return 0
	}
	if errors.Is(err, errHelp) {
		return 2
	}
	var verr *report.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f.Field, f.Error)
		}
	}
	logger.Error("command failed", zap.Error(err))
	return 1
}
