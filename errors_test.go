package kjson

import (
	"errors"
	"testing"
)

func TestErrorUnwrapMatchesSentinel(t *testing.T) {
	_, err := ParseText([]byte(`"abc`), DefaultParseOptions())
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	if !errors.Is(err, ErrUnterminatedString) {
		t.Fatalf("errors.Is(err, ErrUnterminatedString) = false, err: %v", err)
	}

	var kerr *Error
	if !errors.As(err, &kerr) {
		t.Fatalf("errors.As(err, *Error) = false, err: %v", err)
	}
	if kerr.Kind != ErrUnterminatedString {
		t.Fatalf("kerr.Kind = %v, want ErrUnterminatedString", kerr.Kind)
	}
}

func TestErrorUnwrapRejectsWrongSentinel(t *testing.T) {
	_, err := ParseText([]byte(`"abc`), DefaultParseOptions())
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	if errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("errors.Is(err, ErrDepthExceeded) = true, want false")
	}
}
