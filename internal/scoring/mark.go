package scoring

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Mark is a score on an optional component. The zero value means the
// component was not attempted (quiz not conducted, assignment not
// submitted, exam not taken), which is distinct from Score(0).
type Mark struct {
	value     int
	attempted bool
}

// NotAttempted returns a Mark for a component that did not happen.
func NotAttempted() Mark { return Mark{} }

// Score returns an attempted Mark worth v.
func Score(v int) Mark { return Mark{value: v, attempted: true} }

// LegacyMark treats 0 as "not attempted". Forms that cannot express an
// explicit "not attempted" (a plain 0..N slider) use it.
func LegacyMark(v int) Mark {
	if v == 0 {
		return NotAttempted()
	}
	return Score(v)
}

func (m Mark) Attempted() bool { return m.attempted }

// Value is the awarded score; 0 when not attempted.
func (m Mark) Value() int {
	if !m.attempted {
		return 0
	}
	return m.value
}

func (m Mark) String() string {
	if !m.attempted {
		return "not attempted"
	}
	return strconv.Itoa(m.value)
}

// MarshalJSON encodes NotAttempted as null and Score(v) as v.
func (m Mark) MarshalJSON() ([]byte, error) {
	if !m.attempted {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(m.value)), nil
}

func (m *Mark) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = NotAttempted()
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Wrapf(ErrInvalidInput, "mark must be an integer or null, got %s", string(b))
	}
	*m = Score(v)
	return nil
}
