package linktoken

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("secret")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	p := issuer.Issue("chat-42", now)
	if p.Version != Version {
		t.Errorf("Version = %q, want %q", p.Version, Version)
	}
	if p.ChannelID != "chat-42" {
		t.Errorf("ChannelID = %q", p.ChannelID)
	}
	if p.IssuedAt != now.Unix() {
		t.Errorf("IssuedAt = %d, want %d", p.IssuedAt, now.Unix())
	}
	if err := issuer.Verify(p, now.Add(5*time.Minute), DefaultWindow); err != nil {
		t.Errorf("Verify() = %v, want nil", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	issuer := NewIssuer("secret")
	now := time.Now()

	tampered := issuer.Issue("chat-42", now)
	tampered.ChannelID = "chat-99"
	if err := issuer.Verify(tampered, now, DefaultWindow); !errors.Is(err, ErrBadSignature) {
		t.Errorf("tampered channel id: error = %v, want ErrBadSignature", err)
	}

	shifted := issuer.Issue("chat-42", now)
	shifted.IssuedAt++
	if err := issuer.Verify(shifted, now, DefaultWindow); !errors.Is(err, ErrBadSignature) {
		t.Errorf("tampered issued_at: error = %v, want ErrBadSignature", err)
	}

	foreign := NewIssuer("other").Issue("chat-42", now)
	if err := issuer.Verify(foreign, now, DefaultWindow); !errors.Is(err, ErrBadSignature) {
		t.Errorf("foreign secret: error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyFreshness(t *testing.T) {
	issuer := NewIssuer("secret")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := issuer.Issue("chat-42", now)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"immediately", now, nil},
		{"at window edge", now.Add(DefaultWindow), nil},
		{"past window", now.Add(DefaultWindow + time.Second), ErrStale},
		{"clock behind issuer", now.Add(-time.Second), ErrStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := issuer.Verify(p, tt.at, 0); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyCustomWindow(t *testing.T) {
	issuer := NewIssuer("secret")
	now := time.Now()
	p := issuer.Issue("chat-42", now)

	if err := issuer.Verify(p, now.Add(20*time.Minute), 30*time.Minute); err != nil {
		t.Errorf("inside custom window: %v", err)
	}
	if err := issuer.Verify(p, now.Add(2*time.Minute), time.Minute); !errors.Is(err, ErrStale) {
		t.Errorf("outside custom window: error = %v, want ErrStale", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewIssuer("secret")
	now := time.Now()

	if err := issuer.Verify(Payload{Version: "v2"}, now, 0); !errors.Is(err, ErrBadVersion) {
		t.Errorf("unknown version: error = %v, want ErrBadVersion", err)
	}
	if err := issuer.Verify(Payload{Version: Version}, now, 0); !errors.Is(err, ErrMalformed) {
		t.Errorf("empty channel: error = %v, want ErrMalformed", err)
	}
}

func TestReissueChangesSignature(t *testing.T) {
	issuer := NewIssuer("secret")
	now := time.Now()
	first := issuer.Issue("chat-42", now)
	second := issuer.Issue("chat-42", now.Add(time.Second))
	if first.Signature == second.Signature {
		t.Error("re-issuance at a later time must change the signature")
	}
	if err := issuer.Verify(first, now.Add(2*time.Second), DefaultWindow); err != nil {
		t.Errorf("earlier token should still verify inside the window: %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret")
	p := issuer.Issue("chat-42", time.Now())

	raw, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Errorf("round trip mismatch: %+v != %+v", got, p)
	}

	if _, err := Decode("%%%not-base64%%%"); !errors.Is(err, ErrMalformed) {
		t.Errorf("garbage input: error = %v, want ErrMalformed", err)
	}
	if _, err := Decode("bm90LWpzb24"); !errors.Is(err, ErrMalformed) {
		t.Errorf("non-JSON input: error = %v, want ErrMalformed", err)
	}
}
