package credential

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// IDEncoding tells how a stored credential id string was written.
type IDEncoding int

const (
	// EncodingCurrent is unpadded base64url, used for every new registration.
	EncodingCurrent IDEncoding = iota
	// EncodingLegacy is standard base64 written by older clients.
	EncodingLegacy
)

func (e IDEncoding) String() string {
	if e == EncodingLegacy {
		return "legacy"
	}
	return "current"
}

// CredentialID is a stored credential id resolved to its raw bytes.
type CredentialID struct {
	Raw      []byte
	Encoding IDEncoding
}

// EncodeCredentialID renders raw authenticator bytes in the current encoding.
func EncodeCredentialID(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// ParseCredentialID resolves a stored id. Strings carrying standard-alphabet
// characters or padding are legacy; everything else is current.
func ParseCredentialID(stored string) (CredentialID, error) {
	if strings.ContainsAny(stored, "+/=") {
		raw, err := base64.StdEncoding.DecodeString(stored)
		if err != nil {
			raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(stored, "="))
		}
		if err != nil {
			return CredentialID{}, err
		}
		return CredentialID{Raw: raw, Encoding: EncodingLegacy}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil {
		return CredentialID{}, err
	}
	return CredentialID{Raw: raw, Encoding: EncodingCurrent}, nil
}

// Matches compares against the raw id reported by an authenticator.
func (c CredentialID) Matches(raw []byte) bool {
	return len(raw) > 0 && bytes.Equal(c.Raw, raw)
}

// String returns the id in the current encoding regardless of how it was stored.
func (c CredentialID) String() string {
	return EncodeCredentialID(c.Raw)
}
