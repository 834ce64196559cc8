package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

func TestRequired_TrimsAndRejectsBlank(t *testing.T) {
	v, err := Required("name", "  Alice  ")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if v != "Alice" {
		t.Errorf("Expected trimmed value 'Alice', got %q", v)
	}

	if _, err := Required("name", "   "); err == nil {
		t.Error("Expected error for blank value")
	}
}

func TestEmail_LowercasesAndValidates(t *testing.T) {
	v, err := Email("email", "  John.Doe@Example.COM ")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if v != "john.doe@example.com" {
		t.Errorf("Expected lowercased email, got %q", v)
	}

	invalid := []string{"", "not-an-email", "a@b", "@example.com", "user@.com"}
	for _, in := range invalid {
		if _, err := Email("email", in); err == nil {
			t.Errorf("Expected error for email %q", in)
		}
	}
}

func TestEmail_ErrorCarriesField(t *testing.T) {
	_, err := Email("email", "bogus")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if ve.Field != "email" {
		t.Errorf("Expected field 'email', got %q", ve.Field)
	}
}

func TestPhone_OptionalButFormatChecked(t *testing.T) {
	if _, err := Phone("phone", ""); err != nil {
		t.Errorf("Expected empty phone to pass, got: %v", err)
	}
	if _, err := Phone("phone", "+34 600 111 222"); err != nil {
		t.Errorf("Expected valid phone to pass, got: %v", err)
	}
	if _, err := Phone("phone", "call-me-maybe"); err == nil {
		t.Error("Expected error for alphabetic phone")
	}
	if _, err := Phone("phone", "12345"); err == nil {
		t.Error("Expected error for too-short phone")
	}
}

func TestAddress_MinimumLength(t *testing.T) {
	if _, err := Address("address", ""); err != nil {
		t.Errorf("Expected empty address to pass, got: %v", err)
	}
	if _, err := Address("address", "abc"); err == nil {
		t.Error("Expected error for too-short address")
	}
	if _, err := Address("address", "Calle Mayor 12, Madrid"); err != nil {
		t.Errorf("Expected valid address to pass, got: %v", err)
	}
}

func TestDate_Format(t *testing.T) {
	if _, err := Date("birthDate", "1984-02-29"); err != nil {
		t.Errorf("Expected valid date to pass, got: %v", err)
	}
	for _, in := range []string{"29-02-1984", "1984/02/29", "yesterday"} {
		if _, err := Date("birthDate", in); err == nil {
			t.Errorf("Expected error for date %q", in)
		}
	}
}

func TestUsername_Rules(t *testing.T) {
	v, err := Username("username", " Nurse.Joy ")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if v != "nurse.joy" {
		t.Errorf("Expected lowercased username, got %q", v)
	}

	if _, err := Username("username", "ab"); err == nil {
		t.Error("Expected error for too-short username")
	}
	if _, err := Username("username", "has space"); err == nil {
		t.Error("Expected error for username with space")
	}
}

func TestMaxLen_CountsRunes(t *testing.T) {
	if err := MaxLen("note", strings.Repeat("ä", 10), 10); err != nil {
		t.Errorf("Expected 10 runes to pass a limit of 10, got: %v", err)
	}
	if err := MaxLen("note", strings.Repeat("a", 11), 10); err == nil {
		t.Error("Expected error for 11 characters over a limit of 10")
	}
}

func TestPositiveAndNonNegative(t *testing.T) {
	if err := Positive("quantity", 0); err == nil {
		t.Error("Expected error for zero quantity")
	}
	if err := Positive("quantity", 3); err != nil {
		t.Errorf("Expected positive quantity to pass, got: %v", err)
	}
	if err := NonNegative("amount", -1); err == nil {
		t.Error("Expected error for negative amount")
	}
	if err := NonNegative("amount", 0); err != nil {
		t.Errorf("Expected zero amount to pass, got: %v", err)
	}
}

func TestPersonFields_CleansInPlace(t *testing.T) {
	p := &model.Person{
		FirstName: "  Clara ",
		LastName:  "Ibanez",
		Email:     "Clara.Ibanez@Example.com",
		Phone:     " +34600111222 ",
	}
	if err := PersonFields(p); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if p.FirstName != "Clara" {
		t.Errorf("Expected trimmed first name, got %q", p.FirstName)
	}
	if p.Email != "clara.ibanez@example.com" {
		t.Errorf("Expected lowercased email, got %q", p.Email)
	}
}

func TestPersonFields_RequiresIdentity(t *testing.T) {
	cases := []struct {
		name   string
		person model.Person
		field  string
	}{
		{"missing first name", model.Person{LastName: "X", Email: "x@example.com"}, "firstName"},
		{"missing last name", model.Person{FirstName: "X", Email: "x@example.com"}, "lastName"},
		{"missing email", model.Person{FirstName: "X", LastName: "Y"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.person
			err := PersonFields(&p)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("Expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}
