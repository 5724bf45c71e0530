package reportlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/progress-tracker/internal/report"
	"github.com/mind-engage/progress-tracker/internal/scoring"
	"github.com/mind-engage/progress-tracker/internal/storage"
)

const TypeReportGenerated = "report.generated"

// Entry is one row of the report log. It records the outcome of a generated
// report, not its inputs.
type Entry struct {
	Seq             int64   `json:"seq"`
	ReportID        string  `json:"report_id"`
	Type            string  `json:"type"`
	RollNo          string  `json:"roll_no"`
	StudentName     string  `json:"student_name"`
	Subjects        int     `json:"subjects"`
	FinalPercentage float64 `json:"final_percentage"`
	FinalGrade      string  `json:"final_grade"`
	GradePoints     int     `json:"grade_points"`
	ExportKey       string  `json:"export_key,omitempty"`
	CreatedAt       int64   `json:"created_at"`
}

// FromReport summarises a generated report as a log entry.
func FromReport(r report.Report, exportKey string) Entry {
	return Entry{
		ReportID:        r.ID,
		Type:            TypeReportGenerated,
		RollNo:          r.Student.RollNo,
		StudentName:     r.Student.Name,
		Subjects:        len(r.Subjects),
		FinalPercentage: scoring.Round2(r.Semester.FinalPercentage),
		FinalGrade:      r.Semester.FinalGrade,
		GradePoints:     r.Semester.FinalGradePoints,
		ExportKey:       exportKey,
		CreatedAt:       r.GeneratedAt.Unix(),
	}
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Entry) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO report_log (report_id, typ, roll_no, student_name, subjects,
		   final_percentage, final_grade, grade_points, export_key, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ReportID, e.Type, e.RollNo, e.StudentName, e.Subjects,
		e.FinalPercentage, e.FinalGrade, e.GradePoints, e.ExportKey, e.CreatedAt)
	return errors.Wrap(err, "append report log")
}

// Recent returns up to limit entries, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, report_id, typ, roll_no, student_name, subjects,
		        final_percentage, final_grade, grade_points, export_key, created_at
		   FROM report_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query report log")
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.ReportID, &e.Type, &e.RollNo, &e.StudentName, &e.Subjects,
			&e.FinalPercentage, &e.FinalGrade, &e.GradePoints, &e.ExportKey, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan report log")
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate report log")
}

// Recorder archives a generated report: the XLSX export goes to the blob
// store, the summary to the report log.
type Recorder struct {
	repo  *Repo
	blobs storage.BlobStore
}

func NewRecorder(repo *Repo, blobs storage.BlobStore) *Recorder {
	return &Recorder{repo: repo, blobs: blobs}
}

func (rc *Recorder) Repo() *Repo { return rc.repo }

func (rc *Recorder) Record(ctx context.Context, r report.Report) (Entry, error) {
	var key string
	if rc.blobs != nil {
		buf, _, err := report.ExportXLSX(r)
		if err != nil {
			return Entry{}, err
		}
		key, err = rc.blobs.Put(storage.ExportKey(r.ID), buf)
		if err != nil {
			return Entry{}, errors.Wrap(err, "archive export")
		}
	}
	e := FromReport(r, key)
	if err := rc.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
