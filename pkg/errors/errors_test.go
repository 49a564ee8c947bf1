package errors

import (
	"fmt"
	"testing"
)

func TestCodeMatching(t *testing.T) {
	err := New(CodeNoFeasibleSolution, "no assignment found")
	if !Is(err, CodeNoFeasibleSolution) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, CodeTimeout) {
		t.Error("Is should not match a different code")
	}

	// The code survives wrapping by the stdlib.
	wrapped := fmt.Errorf("solve: %w", err)
	if !Is(wrapped, CodeNoFeasibleSolution) {
		t.Error("Is should unwrap to the inner AppError")
	}
	if GetCode(wrapped) != CodeNoFeasibleSolution {
		t.Errorf("GetCode = %s, want %s", GetCode(wrapped), CodeNoFeasibleSolution)
	}
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Error("non-AppError should report the unknown code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeDatabaseError, "insert schedule")
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	msg := err.Error()
	if msg != "[DATABASE_ERROR] insert schedule: disk full" {
		t.Errorf("message = %q", msg)
	}
}

func TestWithField(t *testing.T) {
	err := NoFeasibleSolution("over-constrained").
		WithField("constraint_groups", []string{"coverage", "availability"})
	if err.Fields["constraint_groups"] == nil {
		t.Error("field not attached")
	}
}

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() {
		t.Error("empty collection should report no errors")
	}
	ve.Add("fte", "must be positive")
	ve.Addf("name", "duplicate %q", "Dr. Ash")
	if !ve.HasErrors() || len(ve.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(ve.Errors))
	}

	app := ve.ToAppError()
	if app.Code != CodeValidationFail {
		t.Errorf("code = %s, want %s", app.Code, CodeValidationFail)
	}
	if app.Fields["fte"] != "must be positive" {
		t.Errorf("fields = %v", app.Fields)
	}
}
