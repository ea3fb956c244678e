package codec

import (
	"strings"
	"testing"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

func sampleSession() *models.Session {
	return &models.Session{
		Token:      "1234567",
		Cookies:    map[string]string{"a": "b", "c": "d"},
		CapturedAt: 1700000000,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := sampleSession()

	encoded, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "WC01") {
		t.Fatalf("expected WC01 prefix, got %q", encoded)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Token != s.Token || decoded.CapturedAt != s.CapturedAt {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, s)
	}
	for k, v := range s.Cookies {
		if decoded.Cookies[k] != v {
			t.Fatalf("cookie %q mismatch: got %q, want %q", k, decoded.Cookies[k], v)
		}
	}
}

// TestChecksumRejection is E2E-2: flip the last base64 character and
// expect decoding to fail with a checksum or decode error, never a
// silently-different valid session.
func TestChecksumRejection(t *testing.T) {
	s := sampleSession()
	encoded, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	mutated := flipLastChar(encoded)
	if mutated == encoded {
		t.Fatal("mutation produced no change")
	}

	_, err = Decode(mutated)
	if err == nil {
		t.Fatal("expected decode of mutated string to fail")
	}
	if !models.IsCode(err, models.ErrCodeChecksum) && !models.IsCode(err, models.ErrCodeDecode) {
		t.Fatalf("expected ChecksumError or DecodeError, got %v", err)
	}
}

func flipLastChar(s string) string {
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	last := s[len(s)-1]
	idx := strings.IndexByte(alphabet, last)
	next := alphabet[(idx+1)%len(alphabet)]
	return s[:len(s)-1] + string(next)
}

func TestDecodeWrongVersionPrefix(t *testing.T) {
	_, err := Decode("WC02somepayload")
	if !models.IsCode(err, models.ErrCodeVersion) {
		t.Fatalf("expected VersionError, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("not a portable string")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestQuickValidate(t *testing.T) {
	s := sampleSession()
	encoded, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !QuickValidate(encoded) {
		t.Fatal("expected QuickValidate to accept a well-formed string")
	}
	if QuickValidate("garbage") {
		t.Fatal("expected QuickValidate to reject garbage")
	}
}

func TestEncodeRejectsEmptyToken(t *testing.T) {
	s := &models.Session{Token: "", Cookies: map[string]string{}, CapturedAt: 1}
	if _, err := Encode(s); err == nil {
		t.Fatal("expected validation error for empty token")
	}
}
