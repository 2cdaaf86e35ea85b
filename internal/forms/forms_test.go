package forms

import (
	"net/url"
	"strings"
	"testing"
)

func TestRegistrationValidation(t *testing.T) {
	base := url.Values{
		"username":         {"kari"},
		"email":            {"kari@example.com"},
		"password":         {"hunter2!"},
		"confirm_password": {"hunter2!"},
	}

	tests := []struct {
		name      string
		mutate    func(url.Values)
		wantOK    bool
		wantField string
	}{
		{"valid", func(v url.Values) {}, true, ""},
		{"missing username", func(v url.Values) { v.Set("username", "") }, false, "username"},
		{"username too short", func(v url.Values) { v.Set("username", "k") }, false, "username"},
		{"username too long", func(v url.Values) { v.Set("username", strings.Repeat("a", 21)) }, false, "username"},
		{"username at max", func(v url.Values) {
			v.Set("username", strings.Repeat("a", 20))
		}, true, ""},
		{"bad email", func(v url.Values) { v.Set("email", "not-an-email") }, false, "email"},
		{"missing password", func(v url.Values) { v.Set("password", ""); v.Set("confirm_password", "") }, false, "password"},
		{"confirm mismatch", func(v url.Values) { v.Set("confirm_password", "other") }, false, "confirm_password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vals := url.Values{}
			for k, v := range base {
				vals[k] = append([]string(nil), v...)
			}
			tc.mutate(vals)

			res := Validate(vals, Registration())
			if res.OK() != tc.wantOK {
				t.Fatalf("OK() = %v, want %v (errors: %v)", res.OK(), tc.wantOK, res.ErrorList())
			}
			if tc.wantField != "" {
				if len(res.Errors[tc.wantField]) == 0 {
					t.Errorf("expected error on field %q, got %v", tc.wantField, res.Errors)
				}
			}
		})
	}
}

// The equality check must compare against the submitted password, never a
// stored one.
func TestEqualToUsesSubmittedValue(t *testing.T) {
	vals := url.Values{
		"username":         {"kari"},
		"email":            {"kari@example.com"},
		"password":         {"brand-new-password"},
		"confirm_password": {"brand-new-password"},
	}
	if res := Validate(vals, Registration()); !res.OK() {
		t.Fatalf("expected valid, got %v", res.ErrorList())
	}
}

func TestContactInquiryBoundary(t *testing.T) {
	mk := func(n int) url.Values {
		return url.Values{
			"name":    {"Kari"},
			"email":   {"kari@example.com"},
			"inquiry": {strings.Repeat("x", n)},
		}
	}

	if res := Validate(mk(200), Contact()); !res.OK() {
		t.Errorf("200-char inquiry should be valid, got %v", res.ErrorList())
	}
	res := Validate(mk(201), Contact())
	if res.OK() {
		t.Fatalf("201-char inquiry should be invalid")
	}
	if len(res.Errors["inquiry"]) == 0 {
		t.Errorf("expected error on inquiry, got %v", res.Errors)
	}
}

// Limits count characters, not bytes: Norwegian letters are two bytes in
// UTF-8 but must only use one slot.
func TestLengthBoundsCountRunes(t *testing.T) {
	contact := url.Values{
		"name":    {"Kari"},
		"email":   {"kari@example.com"},
		"inquiry": {strings.Repeat("æ", 200)},
	}
	if res := Validate(contact, Contact()); !res.OK() {
		t.Errorf("200-rune inquiry should be valid, got %v", res.ErrorList())
	}
	contact.Set("inquiry", strings.Repeat("æ", 201))
	if res := Validate(contact, Contact()); res.OK() {
		t.Errorf("201-rune inquiry should be invalid")
	}

	reg := url.Values{
		"username":         {strings.Repeat("ø", 11)},
		"email":            {"kari@example.com"},
		"password":         {"hunter2!"},
		"confirm_password": {"hunter2!"},
	}
	if res := Validate(reg, Registration()); !res.OK() {
		t.Errorf("11-rune username should be valid, got %v", res.ErrorList())
	}
	reg.Set("username", strings.Repeat("ø", 21))
	if res := Validate(reg, Registration()); res.OK() {
		t.Errorf("21-rune username should be invalid")
	}
}

func TestLengthMessages(t *testing.T) {
	fields := []Field{
		{Name: "both", MinLen: 2, MaxLen: 20},
		{Name: "min_only", MinLen: 2},
		{Name: "max_only", MaxLen: 20},
	}
	res := Validate(url.Values{
		"both":     {"x"},
		"min_only": {"x"},
		"max_only": {strings.Repeat("x", 21)},
	}, fields)

	want := map[string]string{
		"both":     "Field must be between 2 and 20 characters long.",
		"min_only": "Field must be at least 2 characters long.",
		"max_only": "Field cannot be longer than 20 characters.",
	}
	for name, msg := range want {
		got := res.Errors[name]
		if len(got) != 1 || got[0] != msg {
			t.Errorf("%s: errors = %v, want %q", name, got, msg)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	res := Validate(url.Values{"email": {""}, "password": {""}}, Login())
	if res.OK() {
		t.Fatalf("empty login form should be invalid")
	}
	for _, f := range []string{"email", "password"} {
		if len(res.Errors[f]) == 0 {
			t.Errorf("expected required error on %q", f)
		}
	}

	ok := Validate(url.Values{"email": {"kari@example.com"}, "password": {"pw"}}, Login())
	if !ok.OK() {
		t.Errorf("valid login form rejected: %v", ok.ErrorList())
	}
}

func TestValuesPreservedForRerender(t *testing.T) {
	vals := url.Values{
		"username": {"  kari  "},
		"email":    {"bad"},
		"password": {" pw "},
	}
	res := Validate(vals, Registration())
	if res.Values["username"] != "kari" {
		t.Errorf("username not trimmed: %q", res.Values["username"])
	}
	if res.Values["password"] != " pw " {
		t.Errorf("password must be taken verbatim: %q", res.Values["password"])
	}
}
