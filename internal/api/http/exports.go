package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/progress-tracker/internal/rbac"
	"github.com/mind-engage/progress-tracker/internal/storage"
)

// MountExports serves archived XLSX exports: GET /{reportID}.
func MountExports(r chi.Router, bs storage.BlobStore, logger *zap.Logger) {
	r.Get("/{reportID}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "reportID")
		rc, err := bs.Get(storage.ExportKey(id))
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		logger.Info("export downloaded",
			zap.String("report_id", id),
			zap.String("sub", rbac.SubjectFromContext(r.Context())),
		)
		defer rc.Close()
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.xlsx"`)
		_, _ = io.Copy(w, rc)
	})
}
