package codec

import "encoding/base64"

// QuickValidate is a cheap check suitable for UI hint text as a user
// pastes a portable string: it checks the version prefix, a minimum
// length, and base64 decodability, but not the CRC32 checksum. A true
// result does not guarantee Decode will succeed.
func QuickValidate(portable string) bool {
	if len(portable) < 4 || portable[:4] != versionPrefix {
		return false
	}
	body := portable[4:]
	if len(body) == 0 {
		return false
	}
	_, err := base64.URLEncoding.DecodeString(restorePadding(body))
	return err == nil
}
