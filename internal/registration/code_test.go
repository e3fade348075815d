package registration

import (
	"strings"
	"testing"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain", "ABC123", "ABC123", false},
		{"lower case folds up", "abc123", "ABC123", false},
		{"surrounding whitespace", "  ABC123  ", "ABC123", false},
		{"internal whitespace stripped", "ABC 123", "ABC123", false},
		{"tabs and newlines", "\tAB\nC123\n", "ABC123", false},
		{"hyphen allowed", "AB-CD-12", "AB-CD-12", false},
		{"too short", "AB12", "", true},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("A", 65), "", true},
		{"max length ok", strings.Repeat("A", 64), strings.Repeat("A", 64), false},
		{"disallowed punctuation", "ABC_123", "", true},
		{"unicode rejected", "ABC12ü", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeCode(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil && err != ErrInvalidFormat {
				t.Errorf("error = %v, want ErrInvalidFormat", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHashCodeDeterministic(t *testing.T) {
	a := HashCode("ABC123", "secret")
	b := HashCode("ABC123", "secret")
	if a != b {
		t.Error("same code and secret must produce the same digest")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if HashCode("ABC124", "secret") == a {
		t.Error("different code must change the digest")
	}
	if HashCode("ABC123", "other") == a {
		t.Error("different secret must change the digest")
	}
}

func TestGenerateCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		code := GenerateCode()
		normalized, err := NormalizeCode(code)
		if err != nil {
			t.Fatalf("generated code %q fails normalization: %v", code, err)
		}
		if normalized != code {
			t.Errorf("generated code %q is not canonical", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("generated codes should not collide constantly")
	}
}
