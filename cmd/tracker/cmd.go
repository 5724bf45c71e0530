package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	api "github.com/mind-engage/progress-tracker/internal/api/http"
	auth "github.com/mind-engage/progress-tracker/internal/auth/middleware"
	"github.com/mind-engage/progress-tracker/internal/config"
	"github.com/mind-engage/progress-tracker/internal/db"
	"github.com/mind-engage/progress-tracker/internal/rbac"
	"github.com/mind-engage/progress-tracker/internal/report"
	"github.com/mind-engage/progress-tracker/internal/reportlog"
	"github.com/mind-engage/progress-tracker/internal/scoring"
	"github.com/mind-engage/progress-tracker/internal/storage"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	cfg    *config.Config
	logger *zap.Logger
	stdin  io.Reader
	stdout io.Writer

	// replaced in tests
	listenAndServe func(srv *http.Server) error
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.stdout, "Usage:")
	fmt.Fprintln(cli.stdout, "  report -in FORM.json [-format text|json] [-xlsx OUT.xlsx] - score a form and print the report")
	fmt.Fprintln(cli.stdout, "  bands - print the grade band table")
	fmt.Fprintln(cli.stdout, "  hash-password -password PASSWORD - print a bcrypt hash for auth.admin_pass_hash")
	fmt.Fprintln(cli.stdout, "  issue-token -sub NAME -role student|teacher|admin - print a bearer token")
	fmt.Fprintln(cli.stdout, "  serve - start the HTTP API")
}

// run dispatches args (without program name and global flags).
func (cli *commandLine) run(args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "report":
		fs := flag.NewFlagSet("report", flag.ContinueOnError)
		fs.SetOutput(cli.stdout)
		in := fs.String("in", "", "Form JSON file ('-' for stdin).")
		format := fs.String("format", "text", "Output format: text or json.")
		xlsx := fs.String("xlsx", "", "Also write the report as an XLSX workbook to this path.")
		if err := fs.Parse(args[1:]); err != nil {
			return errHelp
		}
		if *in == "" || (*format != "text" && *format != "json") {
			fs.Usage()
			return errHelp
		}
		return cli.report(*in, *format, *xlsx)

	case "bands":
		return cli.bands()

	case "hash-password":
		fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
		fs.SetOutput(cli.stdout)
		pw := fs.String("password", "", "The admin password to hash.")
		if err := fs.Parse(args[1:]); err != nil {
			return errHelp
		}
		if *pw == "" {
			fs.Usage()
			return errHelp
		}
		h, err := auth.HashPassword(*pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.stdout, h)
		return nil

	case "issue-token":
		fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
		fs.SetOutput(cli.stdout)
		sub := fs.String("sub", "", "Token subject.")
		role := fs.String("role", "teacher", "Token role.")
		if err := fs.Parse(args[1:]); err != nil {
			return errHelp
		}
		if *sub == "" || !rbac.KnownRole(*role) {
			fs.Usage()
			return errHelp
		}
		if len(cli.cfg.Auth.HMACSecret) < 16 {
			return fmt.Errorf("auth.hmac_secret must be at least 16 characters")
		}
		tok, err := auth.NewAuthService(cli.cfg.Auth.HMACSecret).IssueJWT(*sub, *role)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.stdout, tok)
		return nil

	case "serve":
		return cli.serve()

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readForm(path string) (report.Form, error) {
	var r io.Reader = cli.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return report.Form{}, err
		}
		defer f.Close()
		r = f
	}
	return report.DecodeForm(r)
}

func (cli *commandLine) report(in, format, xlsxPath string) error {
	form, err := cli.readForm(in)
	if err != nil {
		return err
	}
	rep, err := report.NewBuilder(cli.cfg.Scoring, cli.logger).Build(form)
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		buf, _, err := report.ExportXLSX(rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
		cli.logger.Info("xlsx written", zap.String("path", xlsxPath), zap.String("report_id", rep.ID))
	}

	if format == "json" {
		enc := json.NewEncoder(cli.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return report.WriteText(cli.stdout, rep)
}

func (cli *commandLine) bands() error {
	for _, b := range scoring.Bands() {
		if b == scoring.Fail {
			fmt.Fprintf(cli.stdout, "  < %5.1f  %-2s  %2d\n", 40.0, b.Grade, b.Points)
			continue
		}
		fmt.Fprintf(cli.stdout, " >= %5.1f  %-2s  %2d\n", b.Min, b.Grade, b.Points)
	}
	return nil
}

func (cli *commandLine) serve() error {
	cfg, logger := cli.cfg, cli.logger
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	deps := api.Deps{
		Config:  cfg,
		Builder: report.NewBuilder(cfg.Scoring, logger),
		Auth:    auth.NewAuthService(cfg.Auth.HMACSecret),
		Logger:  logger,
	}

	if cfg.Archive.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.Archive.DBDriver), cfg.Archive.DBDSN)
		cancel()
		if err != nil {
			return fmt.Errorf("open report log db: %w", err)
		}
		defer dbh.Close()

		bs, err := storage.NewFSStore(cfg.Archive.BlobPath)
		if err != nil {
			return fmt.Errorf("blob store: %w", err)
		}
		deps.Recorder = reportlog.NewRecorder(reportlog.NewRepo(dbh), bs)
		deps.Blobs = bs
		logger.Info("report archive enabled",
			zap.String("db_driver", cfg.Archive.DBDriver),
			zap.String("blob_path", cfg.Archive.BlobPath),
		)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("mode", string(cfg.Mode)),
			zap.Int("subjects", cfg.Scoring.SubjectCount),
		)
		errc <- cli.listenAndServe(srv)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
