package port

// CredentialStore persists API keys as an append-only set of versioned files.
type CredentialStore interface {
	Resolve() string
	Append(secret string) (string, error)
}

// CredentialBinder is anything that can switch to a new API key.
type CredentialBinder interface {
	Rebind(apiKey string) error
}
