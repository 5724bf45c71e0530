package scoring

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSubject(t *testing.T) {
	tests := []struct {
		name      string
		in        SubjectInput
		wantTotal int
		wantMax   int
		wantPct   float64
		wantGrade string
		wantPts   int
	}{
		{
			name:      "mandatory only, full marks",
			in:        SubjectInput{Quizzes: []int{1, 1, 1, 1}, Assignment1: 12},
			wantTotal: 16, wantMax: 16, wantPct: 100, wantGrade: "A+", wantPts: 10,
		},
		{
			name:      "one optional quiz conducted",
			in:        SubjectInput{Quizzes: []int{0, 0, 0, 0}, Quiz5: Score(1)},
			wantTotal: 1, wantMax: 17, wantPct: 5.88, wantGrade: "F", wantPts: 0,
		},
		{
			name: "everything attempted",
			in: SubjectInput{
				Quizzes: []int{1, 0, 1, 1}, Quiz5: Score(1), Quiz6: Score(0),
				Assignment1: 10, Assignment2: Score(8), Endterm: Score(56),
			},
			wantTotal: 78, wantMax: 100, wantPct: 78, wantGrade: "B", wantPts: 8,
		},
		{
			name: "explicit zero on optional components still counts",
			in: SubjectInput{
				Quizzes: []int{1, 1, 1, 1}, Assignment1: 12,
				Assignment2: Score(0), Endterm: Score(0),
			},
			wantTotal: 16, wantMax: 98, wantPct: 16.33, wantGrade: "F", wantPts: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreSubject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.wantMax, got.MaxTotal)
			assert.Equal(t, tt.wantPct, Round2(got.Percentage))
			assert.Equal(t, tt.wantGrade, got.Grade)
			assert.Equal(t, tt.wantPts, got.GradePoints)
		})
	}
}

func TestScoreSubject_ComponentBreakdown(t *testing.T) {
	got, err := ScoreSubject(SubjectInput{
		Quizzes: []int{1, 1, 0, 1}, Quiz6: Score(1),
		Assignment1: 7, Assignment2: Score(11), Endterm: Score(40),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.QuizTotal)
	assert.Equal(t, 5, got.QuizMax)
	assert.Equal(t, 18, got.AssignmentTotal)
	assert.Equal(t, 24, got.AssignmentMax)
	assert.Equal(t, 40, got.EndtermScore)
	assert.Equal(t, 70, got.EndtermMax)
	assert.Equal(t, got.QuizMax+got.AssignmentMax+got.EndtermMax, got.MaxTotal)
}

func TestScoreSubject_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   SubjectInput
	}{
		{"quiz above range", SubjectInput{Quizzes: []int{2, 0, 0, 0}}},
		{"negative quiz", SubjectInput{Quizzes: []int{0, -1, 0, 0}}},
		{"too few quizzes", SubjectInput{Quizzes: []int{1, 1, 1}}},
		{"too many quizzes", SubjectInput{Quizzes: []int{1, 1, 1, 1, 1}}},
		{"optional quiz above range", SubjectInput{Quizzes: []int{0, 0, 0, 0}, Quiz6: Score(3)}},
		{"assignment1 above range", SubjectInput{Quizzes: []int{0, 0, 0, 0}, Assignment1: 13}},
		{"negative assignment1", SubjectInput{Quizzes: []int{0, 0, 0, 0}, Assignment1: -2}},
		{"assignment2 above range", SubjectInput{Quizzes: []int{0, 0, 0, 0}, Assignment2: Score(20)}},
		{"endterm above range", SubjectInput{Quizzes: []int{0, 0, 0, 0}, Endterm: Score(71)}},
		{"negative endterm", SubjectInput{Quizzes: []int{0, 0, 0, 0}, Endterm: Score(-5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreSubject(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestScoreSubject_Idempotent(t *testing.T) {
	in := SubjectInput{Quizzes: []int{1, 0, 1, 0}, Quiz5: Score(1), Assignment1: 9, Endterm: Score(33)}
	a, err := ScoreSubject(in)
	require.NoError(t, err)
	b, err := ScoreSubject(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScoreSubject_PercentageBounds(t *testing.T) {
	marks := []Mark{NotAttempted(), Score(0), Score(1)}
	for _, q5 := range marks {
		for _, q6 := range marks {
			for _, a1 := range []int{0, 6, 12} {
				for _, end := range []Mark{NotAttempted(), Score(0), Score(35), Score(70)} {
					res, err := ScoreSubject(SubjectInput{
						Quizzes: []int{1, 0, 1, 0}, Quiz5: q5, Quiz6: q6,
						Assignment1: a1, Assignment2: Score(a1), Endterm: end,
					})
					require.NoError(t, err)
					assert.GreaterOrEqual(t, res.Percentage, 0.0)
					assert.LessOrEqual(t, res.Percentage, 100.0)
					assert.GreaterOrEqual(t, res.MaxTotal, 16)
				}
			}
		}
	}
}

func TestEngine_CustomScale(t *testing.T) {
	e := NewEngine(WithScale(Scale{MandatoryQuizzes: 2, QuizMark: 5, AssignmentMark: 20, EndtermMark: 100}))
	res, err := e.ScoreSubject(SubjectInput{Quizzes: []int{5, 3}, Assignment1: 20, Endterm: Score(50)})
	require.NoError(t, err)
	assert.Equal(t, 78, res.Total)
	assert.Equal(t, 130, res.MaxTotal)

	_, err = e.ScoreSubject(SubjectInput{Quizzes: []int{6, 0}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAggregateSemester(t *testing.T) {
	t.Run("equal maxima", func(t *testing.T) {
		sem, err := AggregateSemester([]SubjectResult{
			{Total: 18, MaxTotal: 18},
			{Total: 9, MaxTotal: 18},
		})
		require.NoError(t, err)
		assert.Equal(t, 27, sem.TotalScoreSum)
		assert.Equal(t, 36, sem.TotalMaxSum)
		assert.Equal(t, 75.0, Round2(sem.FinalPercentage))
		assert.Equal(t, "B", sem.FinalGrade)
		assert.Equal(t, 8, sem.FinalGradePoints)
	})

	t.Run("weighted by maxima, not averaged", func(t *testing.T) {
		a, err := ScoreSubject(SubjectInput{Quizzes: []int{1, 1, 1, 1}, Assignment1: 12})
		require.NoError(t, err)
		require.Equal(t, 16, a.MaxTotal)
		b, err := ScoreSubject(SubjectInput{
			Quizzes: []int{0, 0, 0, 0}, Assignment1: 8, Endterm: Score(35),
		})
		require.NoError(t, err)
		require.Equal(t, 86, b.MaxTotal)
		require.Equal(t, 43, b.Total)

		sem, err := AggregateSemester([]SubjectResult{a, b})
		require.NoError(t, err)
		assert.Equal(t, 59, sem.TotalScoreSum)
		assert.Equal(t, 102, sem.TotalMaxSum)
		assert.Equal(t, 57.84, Round2(sem.FinalPercentage))
		assert.Equal(t, "D", sem.FinalGrade)
		assert.Equal(t, 6, sem.FinalGradePoints)

		mean := (a.Percentage + b.Percentage) / 2
		assert.Equal(t, 75.0, mean)
		assert.NotEqual(t, mean, sem.FinalPercentage)
	})

	t.Run("single subject matches the subject", func(t *testing.T) {
		r, err := ScoreSubject(SubjectInput{Quizzes: []int{1, 0, 1, 1}, Assignment1: 5, Endterm: Score(61)})
		require.NoError(t, err)
		sem, err := AggregateSemester([]SubjectResult{r})
		require.NoError(t, err)
		assert.Equal(t, r.Percentage, sem.FinalPercentage)
		assert.Equal(t, r.Grade, sem.FinalGrade)
		assert.Equal(t, r.GradePoints, sem.FinalGradePoints)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := AggregateSemester(nil)
		assert.True(t, errors.Is(err, ErrEmptyInput))
		_, err = AggregateSemester([]SubjectResult{})
		assert.True(t, errors.Is(err, ErrEmptyInput))
	})

	t.Run("zero maximum rejected", func(t *testing.T) {
		_, err := AggregateSemester([]SubjectResult{{Total: 0, MaxTotal: 0}})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestMarkJSON(t *testing.T) {
	var in SubjectInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"quizzes": [1, 1, 0, 1],
		"quiz5": null,
		"quiz6": 0,
		"assignment1": 10,
		"endterm": 0
	}`), &in))
	assert.False(t, in.Quiz5.Attempted())
	assert.True(t, in.Quiz6.Attempted())
	assert.False(t, in.Assignment2.Attempted(), "absent field is not attempted")
	assert.True(t, in.Endterm.Attempted())
	assert.Equal(t, 0, in.Endterm.Value())

	out, err := json.Marshal(struct {
		A Mark `json:"a"`
		B Mark `json:"b"`
	}{NotAttempted(), Score(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": null, "b": 7}`, string(out))

	var m Mark
	err = json.Unmarshal([]byte(`"abc"`), &m)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLegacyMark(t *testing.T) {
	assert.False(t, LegacyMark(0).Attempted())
	assert.Equal(t, Score(9), LegacyMark(9))
	assert.Equal(t, "not attempted", LegacyMark(0).String())
	assert.Equal(t, "9", LegacyMark(9).String())
}
