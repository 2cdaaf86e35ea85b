// Package forms is a small declarative field validator for submitted form
// data: required, length bounds, email shape, and equal-to-another-field.
// Validation is synchronous and side-effect free; handlers decide what to
// do with the result.
package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Field struct {
	Name     string
	Label    string
	Required bool
	MinLen   int
	MaxLen   int // 0 means unbounded
	Email    bool
	EqualTo  string // name of another field this one must match
}

// Result carries the submitted values (for re-rendering the form) and any
// per-field error messages.
type Result struct {
	Values map[string]string
	Errors map[string][]string
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// ErrorList flattens the field errors, mostly for logging and tests.
func (r Result) ErrorList() []string {
	var all []string
	for name, msgs := range r.Errors {
		for _, m := range msgs {
			all = append(all, name+": "+m)
		}
	}
	return all
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func lengthMessage(f Field) string {
	switch {
	case f.MinLen > 0 && f.MaxLen > 0:
		return fmt.Sprintf("Field must be between %d and %d characters long.", f.MinLen, f.MaxLen)
	case f.MinLen > 0:
		return fmt.Sprintf("Field must be at least %d characters long.", f.MinLen)
	default:
		return fmt.Sprintf("Field cannot be longer than %d characters.", f.MaxLen)
	}
}

// Validate checks submitted values against the field specs. Equal-to
// comparisons run against the submitted value of the referenced field,
// never against anything stored.
func Validate(values url.Values, fields []Field) Result {
	res := Result{
		Values: make(map[string]string, len(fields)),
		Errors: make(map[string][]string),
	}
	for _, f := range fields {
		v := values.Get(f.Name)
		// Passwords are taken verbatim; everything else is trimmed.
		if !strings.Contains(f.Name, "password") {
			v = strings.TrimSpace(v)
		}
		res.Values[f.Name] = v

		fail := func(msg string) {
			res.Errors[f.Name] = append(res.Errors[f.Name], msg)
		}

		if v == "" {
			if f.Required {
				fail("This field is required.")
			}
			continue
		}
		// Limits count characters, not bytes; æ/ø/å must not eat two slots.
		n := utf8.RuneCountInString(v)
		if (f.MinLen > 0 && n < f.MinLen) || (f.MaxLen > 0 && n > f.MaxLen) {
			fail(lengthMessage(f))
		}
		if f.Email && !emailRe.MatchString(v) {
			fail("Invalid email address.")
		}
		if f.EqualTo != "" && v != values.Get(f.EqualTo) {
			fail(fmt.Sprintf("Field must be equal to %s.", f.EqualTo))
		}
	}
	return res
}

// Registration is the signup form: username, email, password and its
// confirmation.
func Registration() []Field {
	return []Field{
		{Name: "username", Label: "Brukernavn", Required: true, MinLen: 2, MaxLen: 20},
		{Name: "email", Label: "Epost", Required: true, Email: true, MaxLen: 120},
		{Name: "password", Label: "Passord", Required: true},
		{Name: "confirm_password", Label: "Bekreft passord", Required: true, EqualTo: "password"},
	}
}

// Login is the sign-in form. The remember checkbox is read separately by
// the handler; absent means unchecked.
func Login() []Field {
	return []Field{
		{Name: "email", Label: "Epost", Required: true, Email: true},
		{Name: "password", Label: "Passord", Required: true},
	}
}

// Contact is the inquiry form. The 200-character bound is inclusive.
func Contact() []Field {
	return []Field{
		{Name: "name", Label: "Navn", Required: true, MaxLen: 120},
		{Name: "email", Label: "Epost", Required: true, Email: true},
		{Name: "inquiry", Label: "Henvendelse", Required: true, MaxLen: 200},
	}
}
