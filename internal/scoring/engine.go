package scoring

import "strconv"

// SubjectInput is the raw marks entered for one subject.
type SubjectInput struct {
	Quizzes     []int `json:"quizzes"`
	Quiz5       Mark  `json:"quiz5"`
	Quiz6       Mark  `json:"quiz6"`
	Assignment1 int   `json:"assignment1"`
	Assignment2 Mark  `json:"assignment2"`
	Endterm     Mark  `json:"endterm"`
}

// SubjectResult is the scored view of one subject.
type SubjectResult struct {
	QuizTotal       int     `json:"quiz_total"`
	QuizMax         int     `json:"quiz_max"`
	AssignmentTotal int     `json:"assignment_total"`
	AssignmentMax   int     `json:"assignment_max"`
	EndtermScore    int     `json:"endterm_score"`
	EndtermMax      int     `json:"endterm_max"`
	Total           int     `json:"total"`
	MaxTotal        int     `json:"max_total"`
	Percentage      float64 `json:"percentage"`
	Grade           string  `json:"grade"`
	GradePoints     int     `json:"grade_points"`
}

// SemesterResult aggregates all subjects by summing totals and maxima.
type SemesterResult struct {
	TotalScoreSum    int     `json:"total_score_sum"`
	TotalMaxSum      int     `json:"total_max_sum"`
	FinalPercentage  float64 `json:"final_percentage"`
	FinalGrade       string  `json:"final_grade"`
	FinalGradePoints int     `json:"final_grade_points"`
}

// Scale holds the full marks of each component.
type Scale struct {
	MandatoryQuizzes int `json:"mandatory_quizzes"`
	QuizMark         int `json:"quiz_mark"`
	AssignmentMark   int `json:"assignment_mark"`
	EndtermMark      int `json:"endterm_mark"`
}

// DefaultScale: 4 one-mark quizzes, 12-mark assignments, 70-mark end-term.
var DefaultScale = Scale{
	MandatoryQuizzes: 4,
	QuizMark:         1,
	AssignmentMark:   12,
	EndtermMark:      70,
}

// Engine scores subjects against a Scale. It holds no mutable state.
type Engine struct {
	scale Scale
}

type Option func(*Engine)

func WithScale(s Scale) Option { return func(e *Engine) { e.scale = s } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{scale: DefaultScale}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Scale() Scale { return e.scale }

var defaultEngine = NewEngine()

// ScoreSubject scores in against DefaultScale.
func ScoreSubject(in SubjectInput) (SubjectResult, error) {
	return defaultEngine.ScoreSubject(in)
}

// AggregateSemester combines results with DefaultScale's engine.
func AggregateSemester(results []SubjectResult) (SemesterResult, error) {
	return defaultEngine.AggregateSemester(results)
}

// ScoreSubject computes totals, percentage and grade for one subject.
// Optional components count toward the maximum only when attempted.
func (e *Engine) ScoreSubject(in SubjectInput) (SubjectResult, error) {
	if err := e.validate(in); err != nil {
		return SubjectResult{}, err
	}
	s := e.scale
	var res SubjectResult

	for _, q := range in.Quizzes {
		res.QuizTotal += q
	}
	res.QuizMax = s.MandatoryQuizzes * s.QuizMark
	for _, q := range []Mark{in.Quiz5, in.Quiz6} {
		if q.Attempted() {
			res.QuizTotal += q.Value()
			res.QuizMax += s.QuizMark
		}
	}

	res.AssignmentTotal = in.Assignment1
	res.AssignmentMax = s.AssignmentMark
	if in.Assignment2.Attempted() {
		res.AssignmentTotal += in.Assignment2.Value()
		res.AssignmentMax += s.AssignmentMark
	}

	res.Total = res.QuizTotal + res.AssignmentTotal
	res.MaxTotal = res.QuizMax + res.AssignmentMax
	if in.Endterm.Attempted() {
		res.EndtermScore = in.Endterm.Value()
		res.EndtermMax = s.EndtermMark
		res.Total += res.EndtermScore
		res.MaxTotal += res.EndtermMax
	}

	if res.MaxTotal <= 0 {
		return SubjectResult{}, invalidf("scale yields a zero maximum")
	}
	res.Percentage = 100 * float64(res.Total) / float64(res.MaxTotal)
	res.Grade, res.GradePoints = GradeBand(res.Percentage)
	return res, nil
}

// AggregateSemester sums totals and maxima over all subjects and grades the
// ratio. It is not the mean of per-subject percentages.
func (e *Engine) AggregateSemester(results []SubjectResult) (SemesterResult, error) {
	if len(results) == 0 {
		return SemesterResult{}, ErrEmptyInput
	}
	var sem SemesterResult
	for i, r := range results {
		if r.MaxTotal <= 0 {
			return SemesterResult{}, invalidf("subject %d: max total must be positive, got %d", i+1, r.MaxTotal)
		}
		if r.Total < 0 || r.Total > r.MaxTotal {
			return SemesterResult{}, invalidf("subject %d: total %d outside [0,%d]", i+1, r.Total, r.MaxTotal)
		}
		sem.TotalScoreSum += r.Total
		sem.TotalMaxSum += r.MaxTotal
	}
	sem.FinalPercentage = 100 * float64(sem.TotalScoreSum) / float64(sem.TotalMaxSum)
	sem.FinalGrade, sem.FinalGradePoints = GradeBand(sem.FinalPercentage)
	return sem, nil
}

func (e *Engine) validate(in SubjectInput) error {
	s := e.scale
	if len(in.Quizzes) != s.MandatoryQuizzes {
		return invalidf("expected %d quiz marks, got %d", s.MandatoryQuizzes, len(in.Quizzes))
	}
	for i, q := range in.Quizzes {
		if err := checkRange("quiz"+strconv.Itoa(i+1), q, s.QuizMark); err != nil {
			return err
		}
	}
	if err := checkMark("quiz5", in.Quiz5, s.QuizMark); err != nil {
		return err
	}
	if err := checkMark("quiz6", in.Quiz6, s.QuizMark); err != nil {
		return err
	}
	if err := checkRange("assignment1", in.Assignment1, s.AssignmentMark); err != nil {
		return err
	}
	if err := checkMark("assignment2", in.Assignment2, s.AssignmentMark); err != nil {
		return err
	}
	return checkMark("endterm", in.Endterm, s.EndtermMark)
}

func checkMark(field string, m Mark, max int) error {
	if !m.Attempted() {
		return nil
	}
	return checkRange(field, m.Value(), max)
}

func checkRange(field string, v, max int) error {
	if v < 0 || v > max {
		return invalidf("%s: %d outside [0,%d]", field, v, max)
	}
	return nil
}
