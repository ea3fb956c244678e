// Package codec implements the WC01 portable credential string: a
// checksum-protected, compressed, URL-safe encoding of a Session,
// designed for sharing logged-in state between users without a
// re-login (spec.md §4.3).
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"hash/crc32"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// versionPrefix is the only version this codec currently encodes or
// decodes. Any other "WC??" prefix is a forward-compatibility gate
// (VersionError); anything not matching "WC.." at all is a DecodeError.
const versionPrefix = "WC01"

// Encode serializes a Session into a "WC01..." portable string.
//
// Pipeline: validate -> JSON (no whitespace, UTF-8, non-ASCII preserved)
// -> zlib deflate level 9 -> CRC32 of the compressed bytes (4 bytes,
// big-endian) appended -> base64url, padding stripped -> "WC01" prefix.
func Encode(s *models.Session) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	// encoding/json with SetEscapeHTML(false) preserves non-ASCII runes
	// unescaped, matching the spec's "non-ASCII preserved (no escape)".
	var jsonBuf bytes.Buffer
	enc := json.NewEncoder(&jsonBuf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", models.NewBadPayloadError("encode session json", err)
	}
	jsonBytes := bytes.TrimRight(jsonBuf.Bytes(), "\n")

	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, zlib.BestCompression)
	if err != nil {
		return "", models.NewBadPayloadError("create zlib writer", err)
	}
	if _, err := zw.Write(jsonBytes); err != nil {
		return "", models.NewBadPayloadError("zlib deflate", err)
	}
	if err := zw.Close(); err != nil {
		return "", models.NewBadPayloadError("zlib flush", err)
	}

	checksum := crc32.ChecksumIEEE(compressed.Bytes())
	checksumBytes := []byte{
		byte(checksum >> 24),
		byte(checksum >> 16),
		byte(checksum >> 8),
		byte(checksum),
	}

	payload := append(compressed.Bytes(), checksumBytes...)
	encoded := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(payload)

	return versionPrefix + encoded, nil
}

// Decode parses a "WC01..." portable string back into a Session.
func Decode(portable string) (*models.Session, error) {
	if len(portable) < 4 || !strings.HasPrefix(portable, "WC") {
		return nil, models.NewDecodeError("missing WC version prefix", nil)
	}
	if portable[:4] != versionPrefix {
		return nil, models.NewVersionError("unsupported version prefix: " + portable[:4])
	}

	b64 := restorePadding(portable[4:])
	payload, err := base64.URLEncoding.DecodeString(b64)
	if err != nil {
		return nil, models.NewDecodeError("base64url decode", err)
	}
	if len(payload) < 5 {
		return nil, models.NewDecodeError("payload too short", nil)
	}

	compressed := payload[:len(payload)-4]
	checksumBytes := payload[len(payload)-4:]
	wantChecksum := uint32(checksumBytes[0])<<24 | uint32(checksumBytes[1])<<16 |
		uint32(checksumBytes[2])<<8 | uint32(checksumBytes[3])

	gotChecksum := crc32.ChecksumIEEE(compressed)
	if gotChecksum != wantChecksum {
		return nil, models.NewChecksumError("CRC32 mismatch")
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, models.NewDecodeError("zlib reader init", err)
	}
	defer zr.Close()

	jsonBytes, err := io.ReadAll(zr)
	if err != nil {
		return nil, models.NewDecodeError("zlib inflate", err)
	}

	var s models.Session
	if err := json.Unmarshal(jsonBytes, &s); err != nil {
		return nil, models.NewDecodeError("json unmarshal", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// restorePadding pads a no-padding base64url string back up to a
// multiple of 4 so the stdlib decoder accepts it.
func restorePadding(s string) string {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}
