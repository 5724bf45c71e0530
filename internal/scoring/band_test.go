package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeBand(t *testing.T) {
	tests := []struct {
		pct    float64
		grade  string
		points int
	}{
		{100, "A+", 10},
		{90, "A+", 10},
		{89.999, "A", 9},
		{80, "A", 9},
		{79.99, "B", 8},
		{70, "B", 8},
		{60, "C", 7},
		{59.5, "D", 6},
		{50, "D", 6},
		{40, "E", 5},
		{39.999, "F", 0},
		{0, "F", 0},
	}
	for _, tt := range tests {
		grade, points := GradeBand(tt.pct)
		assert.Equal(t, tt.grade, grade, "pct=%v", tt.pct)
		assert.Equal(t, tt.points, points, "pct=%v", tt.pct)
	}
}

func TestGradeBand_Monotonic(t *testing.T) {
	prev := -1
	for p := 0.0; p <= 100.0; p += 0.25 {
		_, points := GradeBand(p)
		assert.GreaterOrEqual(t, points, prev, "pct=%v", p)
		prev = points
	}
}

func TestBands(t *testing.T) {
	b := Bands()
	assert.Len(t, b, 7)
	assert.Equal(t, "A+", b[0].Grade)
	assert.Equal(t, Fail, b[len(b)-1])

	b[0].Grade = "Z"
	assert.Equal(t, "A+", Bands()[0].Grade, "Bands returns a copy")
}

func TestFeedback(t *testing.T) {
	assert.Equal(t, FeedbackPositive, Feedback(10))
	assert.Equal(t, FeedbackPositive, Feedback(8))
	assert.Equal(t, FeedbackEncouraging, Feedback(7))
	assert.Equal(t, FeedbackEncouraging, Feedback(6))
	assert.Equal(t, FeedbackSupportive, Feedback(5))
	assert.Equal(t, FeedbackSupportive, Feedback(0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 5.88, Round2(100.0/17.0))
	assert.Equal(t, 66.67, Round2(200.0/3.0))
	assert.Equal(t, 100.0, Round2(100))
}
