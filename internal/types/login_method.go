package types

// LoginMethod represents one of the supported authentication methods
type LoginMethod string

const (
	// LoginMethodWallet authenticates through an external browser wallet connector
	LoginMethodWallet LoginMethod = "wallet"
	// LoginMethodEmail authenticates through the embedded wallet with an email code
	LoginMethodEmail LoginMethod = "email"
	// LoginMethodOAuth authenticates through the embedded wallet with an OAuth provider
	LoginMethodOAuth LoginMethod = "oauth"
	// LoginMethodPasskey authenticates through the embedded wallet with a passkey ceremony
	LoginMethodPasskey LoginMethod = "passkey"
	// LoginMethodEcosystem authenticates through a partner application's identity (cross-app)
	LoginMethodEcosystem LoginMethod = "ecosystem"
)

// String returns the string representation of the login method
func (m LoginMethod) String() string {
	return string(m)
}

// IsEmbedded checks whether the method is served by the embedded wallet
func (m LoginMethod) IsEmbedded() bool {
	return m == LoginMethodEmail || m == LoginMethodOAuth || m == LoginMethodPasskey
}

// IsCrossApp checks whether the method is a delegated cross-app login
func (m LoginMethod) IsCrossApp() bool {
	return m == LoginMethodEcosystem
}

// ConnectionSource represents the provider family that produced a connection
type ConnectionSource string

const (
	// SourceExternalWallet marks connections made through a third-party wallet connector
	SourceExternalWallet ConnectionSource = "external-wallet"
	// SourceEmbeddedWallet marks connections made through the embedded wallet popup
	SourceEmbeddedWallet ConnectionSource = "embedded-wallet"
	// SourceCrossApp marks connections delegated to a partner application
	SourceCrossApp ConnectionSource = "cross-app"
)

// String returns the string representation of the connection source
func (s ConnectionSource) String() string {
	return string(s)
}

// UsesSmartAccountSigning checks whether transactions for this source are
// authorized by the owner key and relayed through the smart account, as
// opposed to being signed directly by the connected wallet.
func (s ConnectionSource) UsesSmartAccountSigning() bool {
	return s == SourceEmbeddedWallet || s == SourceCrossApp
}
