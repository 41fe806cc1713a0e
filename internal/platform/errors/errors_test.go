package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeSaveCorrupt, "decode save", io.ErrUnexpectedEOF)
	if err.Error() != "decode save: unexpected EOF" {
		t.Fatalf("message = %q", err.Error())
	}
	if err.Unwrap() != io.ErrUnexpectedEOF {
		t.Fatal("expected cause to unwrap")
	}
}

func TestHasCodeTraversesWrapping(t *testing.T) {
	base := New(CodeMissionIncomplete, "mission 3 is not complete")
	wrapped := fmt.Errorf("advance: %w", base)

	if !HasCode(wrapped, CodeMissionIncomplete) {
		t.Fatal("expected code to match through fmt wrapping")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Fatal("expected other code not to match")
	}
	if got := GetCode(wrapped); got != CodeMissionIncomplete {
		t.Fatalf("code = %s, want %s", got, CodeMissionIncomplete)
	}
	if got := GetCode(io.EOF); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeNotFound:          http.StatusNotFound,
		CodeMissionIncomplete: http.StatusConflict,
		CodeInsufficientFunds: http.StatusConflict,
		CodeLicenseUnknown:    http.StatusBadRequest,
		CodeSaveCorrupt:       http.StatusInternalServerError,
		CodeUnknown:           http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s status = %d, want %d", code, got, want)
		}
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeLicenseLevelTooLow, "level too low", map[string]string{"required": "4"})
	if err.Metadata["required"] != "4" {
		t.Fatalf("metadata = %v", err.Metadata)
	}
}
