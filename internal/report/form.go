package report

import (
	"encoding/json"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/mind-engage/progress-tracker/internal/scoring"
)

// ErrInvalidForm is the cause of every ValidationError raised by the form
// layer itself (as opposed to range errors from the scoring engine).
var ErrInvalidForm = errors.New("invalid form")

// Student identity is free text and shown only when non-empty.
type Student struct {
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

// SubjectForm is one subject as entered on the form.
type SubjectForm struct {
	Name        string       `json:"name" validate:"max=100"`
	Quizzes     []int        `json:"quizzes" validate:"required,len=4,dive,gte=0"`
	Quiz5       scoring.Mark `json:"quiz5" validate:"omitempty,gte=0"`
	Quiz6       scoring.Mark `json:"quiz6" validate:"omitempty,gte=0"`
	Assignment1 int          `json:"assignment1" validate:"gte=0"`
	Assignment2 scoring.Mark `json:"assignment2" validate:"omitempty,gte=0"`
	Endterm     scoring.Mark `json:"endterm" validate:"omitempty,gte=0"`
}

// Form is everything collected before "Generate Report".
type Form struct {
	Student  Student       `json:"student"`
	Subjects []SubjectForm `json:"subjects" validate:"required,dive"`
}

// DecodeForm reads one JSON form from r. Unknown keys are rejected so a
// misspelled optional mark is not silently scored as not attempted.
func DecodeForm(r io.Reader) (Form, error) {
	var f Form
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Form{}, NewValidationError(ErrInvalidForm, FieldError{Field: "body", Error: err.Error()})
	}
	return f, nil
}

// FieldError is an error on a specific form field, keyed by JSON path.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return ""
	}
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return e.Err.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

type formValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newFormValidator() *formValidator {
	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")

	v := validator.New()
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	// JSON names in field paths instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// A not-attempted mark validates as empty; an attempted one as its value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		m, ok := field.Interface().(scoring.Mark)
		if !ok || !m.Attempted() {
			return nil
		}
		return m.Value()
	}, scoring.Mark{})

	return &formValidator{validate: v, translator: translator}
}

// check returns a *ValidationError listing every failing field.
func (fv *formValidator) check(f Form) error {
	err := fv.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate form")
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: fieldPath(fe.Namespace()),
			Error: fe.Translate(fv.translator),
		})
	}
	return NewValidationError(ErrInvalidForm, fields...)
}

// fieldPath drops the root struct name: "Form.subjects[0].quizzes" -> "subjects[0].quizzes".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
