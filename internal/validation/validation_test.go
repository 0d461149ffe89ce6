package validation

import (
	"errors"
	"testing"

	"github.com/larkerlabs/storefront-orderflow/internal/apierr"
)

func TestCredentials_Valid(t *testing.T) {
	v := New()

	creds := Credentials{
		Email:    "buyer@example.com",
		Password: "correct-horse",
	}

	if err := Check(v, creds); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCredentials_BadEmailAndShortPassword(t *testing.T) {
	v := New()

	creds := Credentials{
		Email:    "not-an-email",
		Password: "x",
	}

	err := Check(v, creds)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Kind != apierr.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if _, ok := ae.Fields["email"]; !ok {
		t.Fatalf("expected field error on email, got %v", ae.Fields)
	}
	if _, ok := ae.Fields["password"]; !ok {
		t.Fatalf("expected field error on password, got %v", ae.Fields)
	}
}

func TestCheckoutRequest_EmptyProductIDs(t *testing.T) {
	v := New()

	if err := Check(v, CheckoutRequest{ProductIDs: []string{}}); err == nil {
		t.Fatal("expected validation error for empty product_ids")
	}
	if err := Check(v, CheckoutRequest{ProductIDs: []string{"p1"}}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}
