package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mind-engage/progress-tracker/internal/rbac"
	"github.com/mind-engage/progress-tracker/internal/report"
	"github.com/mind-engage/progress-tracker/internal/reportlog"
	"github.com/mind-engage/progress-tracker/internal/scoring"
)

// Archiver records generated reports; nil when the archive is disabled.
type Archiver interface {
	Record(ctx context.Context, r report.Report) (reportlog.Entry, error)
}

// decodeForm reads the whole body first so an oversized request surfaces as
// *http.MaxBytesError instead of a JSON syntax error.
func decodeForm(r *http.Request) (report.Form, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return report.Form{}, err
	}
	return report.DecodeForm(bytes.NewReader(body))
}

func buildAndRecord(r *http.Request, b *report.Builder, arc Archiver, logger *zap.Logger) (report.Report, error) {
	f, err := decodeForm(r)
	if err != nil {
		return report.Report{}, err
	}
	rep, err := b.Build(f)
	if err != nil {
		return report.Report{}, err
	}
	if arc != nil {
		// the report stands even if archiving fails
		if _, err := arc.Record(r.Context(), rep); err != nil {
			logger.Error("archive report", zap.String("report_id", rep.ID), zap.Error(err))
		}
	}
	return rep, nil
}

// POST /reports            -> Report JSON
// POST /reports?format=text -> text/plain
func GenerateReportHandler(b *report.Builder, arc Archiver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := buildAndRecord(r, b, arc, logger)
		if err != nil {
			writeError(w, err)
			return
		}
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if err := report.WriteText(w, rep); err != nil {
				logger.Warn("write text report", zap.Error(err))
			}
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// POST /reports/xlsx
func ExportReportHandler(b *report.Builder, arc Archiver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := buildAndRecord(r, b, arc, logger)
		if err != nil {
			writeError(w, err)
			return
		}
		buf, name, err := report.ExportXLSX(rep)
		if err != nil {
			logger.Error("export xlsx", zap.String("report_id", rep.ID), zap.Error(err))
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	}
}

// GET /config -> subject count and full marks, for building the form
func FormConfigHandler(b *report.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"subject_count": b.SubjectCount(),
			"scale":         b.Scale(),
		})
	}
}

// GET /bands
func BandsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, scoring.Bands())
	}
}

// GET /reports/log?limit=N
func ReportLogHandler(repo *reportlog.Repo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		logger.Info("report log viewed",
			zap.String("sub", rbac.SubjectFromContext(r.Context())),
			zap.String("role", rbac.RoleFromContext(r.Context())),
			zap.Int("limit", limit),
		)
		entries, err := repo.Recent(r.Context(), limit)
		if err != nil {
			logger.Error("list report log", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
