package credential

import (
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

// Ceremony runs the WebAuthn protocol checks for one relying party and origin.
type Ceremony interface {
	BeginRegistration(user webauthn.User) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	CreateCredential(user webauthn.User, session webauthn.SessionData, parsed *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginLogin(user webauthn.User) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	ValidateLogin(user webauthn.User, session webauthn.SessionData, parsed *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
}

// CeremonyFactory builds a Ceremony bound to rpID and origin.
type CeremonyFactory func(rpID, origin string) (Ceremony, error)

// NewWebAuthnFactory returns the go-webauthn backed factory.
func NewWebAuthnFactory(displayName string, timeout time.Duration) CeremonyFactory {
	return func(rpID, origin string) (Ceremony, error) {
		w, err := webauthn.New(&webauthn.Config{
			RPID:          rpID,
			RPDisplayName: displayName,
			RPOrigins:     []string{origin},
			Timeouts: webauthn.TimeoutsConfig{
				Login:        webauthn.TimeoutConfig{Enforce: true, Timeout: timeout},
				Registration: webauthn.TimeoutConfig{Enforce: true, Timeout: timeout},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure webauthn for %s: %w", rpID, err)
		}
		return &webauthnCeremony{w: w}, nil
	}
}

type webauthnCeremony struct {
	w *webauthn.WebAuthn
}

func (c *webauthnCeremony) BeginRegistration(user webauthn.User) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	return c.w.BeginRegistration(user,
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementPreferred,
			UserVerification: protocol.VerificationRequired,
		}),
		webauthn.WithExclusions(excludeList(user.WebAuthnCredentials())),
		webauthn.WithConveyancePreference(protocol.PreferNoAttestation),
	)
}

func (c *webauthnCeremony) CreateCredential(user webauthn.User, session webauthn.SessionData, parsed *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	return c.w.CreateCredential(user, session, parsed)
}

func (c *webauthnCeremony) BeginLogin(user webauthn.User) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	return c.w.BeginLogin(user, webauthn.WithUserVerification(protocol.VerificationRequired))
}

func (c *webauthnCeremony) ValidateLogin(user webauthn.User, session webauthn.SessionData, parsed *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	return c.w.ValidateLogin(user, session, parsed)
}

func excludeList(creds []webauthn.Credential) []protocol.CredentialDescriptor {
	out := make([]protocol.CredentialDescriptor, 0, len(creds))
	for _, c := range creds {
		out = append(out, c.Descriptor())
	}
	return out
}

// passkeyUser adapts a user and its devices to webauthn.User.
type passkeyUser struct {
	id          uuid.UUID
	credentials []webauthn.Credential
}

func (u *passkeyUser) WebAuthnID() []byte {
	b := u.id
	return b[:]
}

func (u *passkeyUser) WebAuthnName() string {
	return u.id.String()
}

func (u *passkeyUser) WebAuthnDisplayName() string {
	return "Wallet " + u.id.String()[:8]
}

func (u *passkeyUser) WebAuthnCredentials() []webauthn.Credential {
	return u.credentials
}
