package report

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/progress-tracker/internal/scoring"
)

var ErrExportGenerateFail = errors.New("failed to generate xlsx report")

const (
	sheetSubjects = "Subjects"
	sheetSummary  = "Summary"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportXLSX writes the report as a two-sheet workbook and suggests a filename.
func ExportXLSX(r Report) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetSubjects)
	if err != nil {
		return nil, "", errors.Wrap(ErrExportGenerateFail, err.Error())
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, "", errors.Wrap(ErrExportGenerateFail, err.Error())
	}
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{
		"Subject", "Quizzes", "Quiz Max", "Assignments", "Assignment Max",
		"Endterm", "Endterm Max", "Total", "Max Total", "Percentage", "Grade", "Grade Points",
	}
	for i, h := range headers {
		f.SetCellValue(sheetSubjects, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetSubjects, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(sheetSubjects, "A", "A", 24)
	f.SetColWidth(sheetSubjects, "B", colName(len(headers)-1), 14)

	row := 2
	for _, s := range r.Subjects {
		res := s.Result
		values := []interface{}{
			s.Name, res.QuizTotal, res.QuizMax, res.AssignmentTotal, res.AssignmentMax,
			res.EndtermScore, res.EndtermMax, res.Total, res.MaxTotal,
			scoring.Round2(res.Percentage), res.Grade, res.GradePoints,
		}
		for i, v := range values {
			f.SetCellValue(sheetSubjects, cell(colName(i), row), v)
		}
		row++
	}

	summary := [][2]interface{}{
		{"Student", r.Student.Name},
		{"Roll No", r.Student.RollNo},
		{"Phone", r.Student.Phone},
		{"Email", r.Student.Email},
		{"Total Score", r.Semester.TotalScoreSum},
		{"Total Max", r.Semester.TotalMaxSum},
		{"Semester Percentage", scoring.Round2(r.Semester.FinalPercentage)},
		{"Final Grade", r.Semester.FinalGrade},
		{"Grade Points", r.Semester.FinalGradePoints},
		{"Feedback", r.Feedback},
		{"Report ID", r.ID},
		{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
	}
	for i, kv := range summary {
		f.SetCellValue(sheetSummary, cell("A", i+1), kv[0])
		f.SetCellValue(sheetSummary, cell("B", i+1), kv[1])
	}
	f.SetCellStyle(sheetSummary, "A1", cell("A", len(summary)), headerStyle)
	f.SetColWidth(sheetSummary, "A", "A", 22)
	f.SetColWidth(sheetSummary, "B", "B", 60)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", errors.Wrap(ErrExportGenerateFail, err.Error())
	}
	return buf, xlsxFilename(r), nil
}

func xlsxFilename(r Report) string {
	base := unsafeFilename.ReplaceAllString(r.Student.RollNo, "_")
	if base == "" || base == "_" {
		base = r.ID
	}
	return fmt.Sprintf("progress-report_%s.xlsx", base)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
