package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mind-engage/progress-tracker/internal/config"
	"github.com/mind-engage/progress-tracker/internal/scoring"
)

// Chart categories, in display order.
const (
	CategoryQuizzes     = "Quizzes"
	CategoryAssignments = "Assignments"
	CategoryEndterm     = "Endterm"
)

// ChartBar is one bar of a subject's three-category chart.
type ChartBar struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Max   int    `json:"max"`
}

type SubjectReport struct {
	Name   string                `json:"name"`
	Result scoring.SubjectResult `json:"result"`
	Chart  []ChartBar            `json:"chart"`
}

// Report is the generated output for one form submission.
type Report struct {
	ID          string                 `json:"id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Student     Student                `json:"student"`
	Subjects    []SubjectReport        `json:"subjects"`
	Semester    scoring.SemesterResult `json:"semester"`
	Feedback    string                 `json:"feedback"`
}

// Builder validates a Form and runs it through the scoring engine.
type Builder struct {
	engine       *scoring.Engine
	forms        *formValidator
	subjectCount int
	legacyZero   bool
	logger       *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewBuilder(cfg config.ScoringConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		engine:       scoring.NewEngine(scoring.WithScale(cfg.Scale())),
		forms:        newFormValidator(),
		subjectCount: cfg.SubjectCount,
		legacyZero:   cfg.ZeroMeansNotAttempted,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.NewString() },
	}
}

func (b *Builder) SubjectCount() int     { return b.subjectCount }
func (b *Builder) Scale() scoring.Scale { return b.engine.Scale() }

// Build scores every subject and the semester. Failures are returned as a
// *ValidationError whose cause is ErrInvalidForm, scoring.ErrInvalidInput or
// scoring.ErrEmptyInput.
func (b *Builder) Build(f Form) (Report, error) {
	if err := b.forms.check(f); err != nil {
		return Report{}, err
	}
	if len(f.Subjects) != b.subjectCount {
		return Report{}, NewValidationError(ErrInvalidForm, FieldError{
			Field: "subjects",
			Error: fmt.Sprintf("expected %d subjects, got %d", b.subjectCount, len(f.Subjects)),
		})
	}

	subjects := make([]SubjectReport, 0, len(f.Subjects))
	results := make([]scoring.SubjectResult, 0, len(f.Subjects))
	for i, sf := range f.Subjects {
		res, err := b.engine.ScoreSubject(b.input(sf))
		if err != nil {
			return Report{}, NewValidationError(err, FieldError{
				Field: fmt.Sprintf("subjects[%d]", i),
				Error: strings.TrimSuffix(err.Error(), ": "+scoring.ErrInvalidInput.Error()),
			})
		}
		results = append(results, res)
		subjects = append(subjects, SubjectReport{
			Name:   subjectName(sf.Name, i),
			Result: res,
			Chart: []ChartBar{
				{Label: CategoryQuizzes, Value: res.QuizTotal, Max: res.QuizMax},
				{Label: CategoryAssignments, Value: res.AssignmentTotal, Max: res.AssignmentMax},
				{Label: CategoryEndterm, Value: res.EndtermScore, Max: res.EndtermMax},
			},
		})
	}

	sem, err := b.engine.AggregateSemester(results)
	if err != nil {
		if errors.Is(err, scoring.ErrEmptyInput) {
			return Report{}, NewValidationError(err, FieldError{Field: "subjects", Error: "at least one subject is required"})
		}
		return Report{}, errors.Wrap(err, "aggregate semester")
	}

	r := Report{
		ID:          b.newID(),
		GeneratedAt: b.now(),
		Student:     trimStudent(f.Student),
		Subjects:    subjects,
		Semester:    sem,
		Feedback:    scoring.Feedback(sem.FinalGradePoints),
	}
	b.logger.Info("report generated",
		zap.String("report_id", r.ID),
		zap.Int("subjects", len(subjects)),
		zap.Float64("final_percentage", scoring.Round2(sem.FinalPercentage)),
		zap.String("final_grade", sem.FinalGrade),
	)
	return r, nil
}

func (b *Builder) input(sf SubjectForm) scoring.SubjectInput {
	in := scoring.SubjectInput{
		Quizzes:     sf.Quizzes,
		Quiz5:       sf.Quiz5,
		Quiz6:       sf.Quiz6,
		Assignment1: sf.Assignment1,
		Assignment2: sf.Assignment2,
		Endterm:     sf.Endterm,
	}
	if b.legacyZero {
		in.Assignment2 = scoring.LegacyMark(sf.Assignment2.Value())
		in.Endterm = scoring.LegacyMark(sf.Endterm.Value())
	}
	return in
}

func subjectName(name string, i int) string {
	if s := strings.TrimSpace(name); s != "" {
		return s
	}
	return fmt.Sprintf("Subject %d", i+1)
}

func trimStudent(s Student) Student {
	return Student{
		Name:   strings.TrimSpace(s.Name),
		RollNo: strings.TrimSpace(s.RollNo),
		Phone:  strings.TrimSpace(s.Phone),
		Email:  strings.TrimSpace(s.Email),
	}
}
