package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-06-10"); !ok {
		t.Error("IsValidDate(\"2024-06-10\") = false, want true")
	}
	for _, bad := range []string{"2024-13-01", "06/10/2024", "2024-6-1", ""} {
		if _, ok := IsValidDate(bad); ok {
			t.Errorf("IsValidDate(%q) = true, want false", bad)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	allowed := []string{"", "1", "+1", "-1"}
	for _, v := range allowed {
		if !IsInSlice(v, allowed) {
			t.Errorf("IsInSlice(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"2", "+2", " 1", "one"} {
		if IsInSlice(v, allowed) {
			t.Errorf("IsInSlice(%q) = true, want false", v)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "title", Message: "title is required"},
		{Field: "date", Message: "date is required"},
	}
	m := errs.ToMap()
	if len(m) != 2 || m["title"] != "title is required" {
		t.Errorf("ToMap() = %v", m)
	}
	if errs.Error() != "title: title is required; date: date is required" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
