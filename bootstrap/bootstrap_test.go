package bootstrap

import (
	"testing"

	"github.com/vag-Zhao/WeMediaSpider/codec"
	"github.com/vag-Zhao/WeMediaSpider/models"
)

func TestFromPortableRoundTrips(t *testing.T) {
	original := &models.Session{
		Token:      "abc123",
		Cookies:    map[string]string{"slave_sid": "s1", "slave_user": "u1", "data_ticket": "d1"},
		CapturedAt: 1700000000,
	}
	portable, err := codec.Encode(original)
	if err != nil {
		t.Fatalf("codec.Encode: %v", err)
	}

	provider, err := FromPortable(portable)
	if err != nil {
		t.Fatalf("FromPortable: %v", err)
	}

	session, err := provider.Session()
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if session.Token != original.Token {
		t.Fatalf("token = %q, want %q", session.Token, original.Token)
	}
}

func TestFromPortableRejectsGarbage(t *testing.T) {
	if _, err := FromPortable("not-a-portable-string"); err == nil {
		t.Fatalf("expected an error decoding garbage input")
	}
}
