package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", nil); msg == "invalid type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownKeyNamesKey(t *testing.T) {
	if msg := T("unknown_key", map[string]string{"key": "x"}); msg != "extra fields not permitted: x" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "E:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("required", nil); msg != "E:required" {
		t.Fatalf("expected custom translator, got %q", msg)
	}
	SetTranslator(nil)
	if msg := T("required", nil); msg != "required property missing" {
		t.Fatalf("expected english after reset, got %q", msg)
	}
	// unknown codes fall back to the code itself
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected fallback to code, got %q", msg)
	}
}
