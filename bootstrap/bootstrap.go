// Package bootstrap constructs a Session. The interactive,
// browser-driven flow is a separate collaborator entirely out of
// scope here; this package covers the non-interactive on-ramp: a
// portable "WC01..." string pasted in from a prior Encode, decoded
// straight into a usable Session (spec.md §1, §4.3 supplement).
package bootstrap

import (
	"github.com/vag-Zhao/WeMediaSpider/codec"
	"github.com/vag-Zhao/WeMediaSpider/models"
)

// Provider supplies a Session to the rest of the system. The
// interactive, browser-driven implementation (cookie capture, QR-code
// login) is an opaque collaborator outside this module's scope;
// FromPortable below is the only in-scope constructor.
type Provider interface {
	Session() (*models.Session, error)
}

// portableProvider wraps an already-decoded Session so it satisfies
// Provider without holding a live browser or QR login flow.
type portableProvider struct {
	session *models.Session
}

func (p *portableProvider) Session() (*models.Session, error) {
	return p.session, nil
}

// FromPortable decodes a "WC01..." string (produced by codec.Encode)
// into a ready-to-use Provider. It fails the same way codec.Decode
// fails: VersionError for an unsupported prefix, ChecksumError for a
// corrupted payload, DecodeError otherwise.
func FromPortable(portable string) (Provider, error) {
	session, err := codec.Decode(portable)
	if err != nil {
		return nil, err
	}
	return &portableProvider{session: session}, nil
}
