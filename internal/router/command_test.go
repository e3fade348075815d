package router

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		wantCode string
	}{
		{"ABC123", KindBindAttempt, "ABC123"},
		{"  abc 123  ", KindBindAttempt, "abc 123"},
		{"/link ABC123", KindBindAttempt, "ABC123"},
		{"/bind ABC123", KindBindAttempt, "ABC123"},
		{"/LINK ABC123", KindBindAttempt, "ABC123"},
		{"/link@chatlink_bot ABC123", KindBindAttempt, "ABC123"},
		{"/start ABC123", KindBindAttempt, "ABC123"},
		{"/start", KindHelp, ""},
		{"/unlink", KindUnbind, ""},
		{"/unbind", KindUnbind, ""},
		{"/unlink extra words", KindUnbind, ""},
		{"/token", KindReissueToken, ""},
		{"/status", KindStatus, ""},
		{"/help", KindHelp, ""},
		{"/frobnicate", KindHelp, ""},
		{"", KindHelp, ""},
		{"   ", KindHelp, ""},
	}
	for _, tt := range tests {
		kind, code := ParseCommand(tt.raw)
		if kind != tt.wantKind || code != tt.wantCode {
			t.Errorf("ParseCommand(%q) = (%q, %q), want (%q, %q)", tt.raw, kind, code, tt.wantKind, tt.wantCode)
		}
	}
}
