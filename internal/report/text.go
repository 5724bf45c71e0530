package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const barWidth = 20

// WriteText renders the per-subject blocks followed by the final summary.
func WriteText(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Subject-wise Analysis")
	fmt.Fprintln(bw, strings.Repeat("=", 21))
	for _, s := range r.Subjects {
		res := s.Result
		fmt.Fprintf(bw, "\n%s\n", s.Name)
		fmt.Fprintf(bw, "- Total: %d/%d\n", res.Total, res.MaxTotal)
		fmt.Fprintf(bw, "- Percentage: %.2f%%\n", res.Percentage)
		fmt.Fprintf(bw, "- Grade: %s\n", res.Grade)
		for _, c := range s.Chart {
			fmt.Fprintf(bw, "  %-12s %s %d/%d\n", c.Label, bar(c.Value, c.Max), c.Value, c.Max)
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Final Result")
	fmt.Fprintln(bw, strings.Repeat("=", 12))
	writeIdentity(bw, "Student", r.Student.Name)
	writeIdentity(bw, "Roll No", r.Student.RollNo)
	writeIdentity(bw, "Email", r.Student.Email)
	fmt.Fprintf(bw, "Semester Percentage: %.2f%%\n", r.Semester.FinalPercentage)
	fmt.Fprintf(bw, "Final Grade: %s\n", r.Semester.FinalGrade)
	fmt.Fprintf(bw, "Grade Points: %d\n", r.Semester.FinalGradePoints)
	fmt.Fprintf(bw, "\n%s\n", r.Feedback)

	return bw.Flush()
}

func writeIdentity(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, value)
}

// bar draws value/max as a fixed-width run of '#' padded with '.'.
func bar(value, max int) string {
	filled := 0
	if max > 0 && value > 0 {
		filled = value * barWidth / max
		if filled > barWidth {
			filled = barWidth
		}
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}
