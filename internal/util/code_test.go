package util

import (
	"strings"
	"testing"
)

func TestGenerateJoinCode(t *testing.T) {
	code, err := GenerateJoinCode(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 8 {
		t.Errorf("len(code) = %d, want 8", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(joinCodeCharset, r) {
			t.Errorf("code %q contains %q outside charset", code, r)
		}
	}
}

func TestGenerateJoinCodeExcludesAmbiguousChars(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateJoinCode(8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.ContainsAny(code, "0O1I") {
			t.Fatalf("code %q contains ambiguous character", code)
		}
	}
}

func TestGenerateJoinCodeZeroLength(t *testing.T) {
	code, err := GenerateJoinCode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "" {
		t.Errorf("code = %q, want empty", code)
	}
}
