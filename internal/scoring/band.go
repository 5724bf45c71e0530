package scoring

import "math"

// Band maps an inclusive lower percentage bound to a letter grade.
type Band struct {
	Min    float64 `json:"min"`
	Grade  string  `json:"grade"`
	Points int     `json:"points"`
}

// evaluated top-down; first matching lower bound wins
var bands = []Band{
	{Min: 90, Grade: "A+", Points: 10},
	{Min: 80, Grade: "A", Points: 9},
	{Min: 70, Grade: "B", Points: 8},
	{Min: 60, Grade: "C", Points: 7},
	{Min: 50, Grade: "D", Points: 6},
	{Min: 40, Grade: "E", Points: 5},
}

// Fail is the grade below the lowest band.
var Fail = Band{Min: 0, Grade: "F", Points: 0}

// Bands returns a copy of the grade table, highest band first, ending with Fail.
func Bands() []Band {
	out := make([]Band, 0, len(bands)+1)
	out = append(out, bands...)
	return append(out, Fail)
}

// GradeBand looks up the letter grade and grade points for a percentage.
func GradeBand(percentage float64) (string, int) {
	for _, b := range bands {
		if percentage >= b.Min {
			return b.Grade, b.Points
		}
	}
	return Fail.Grade, Fail.Points
}

// Feedback messages keyed by final grade points.
const (
	FeedbackPositive    = "Excellent work! Keep maintaining this consistency."
	FeedbackEncouraging = "Good performance. A little more effort can take you higher!"
	FeedbackSupportive  = "Don't be discouraged. Focus on fundamentals and practice regularly."
)

// Feedback picks the closing message for a semester result.
func Feedback(points int) string {
	switch {
	case points >= 8:
		return FeedbackPositive
	case points >= 6:
		return FeedbackEncouraging
	default:
		return FeedbackSupportive
	}
}

// Round2 rounds to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
