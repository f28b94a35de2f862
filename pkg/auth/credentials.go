package auth

import "strings"

// Credentials resolves provider API keys loaded at startup. Only the Google
// provider is configured in this deployment.
type credentials struct {
	keys map[string]string
}

func NewCredentials(googleAPIKey string) *credentials {
	keys := make(map[string]string)
	if k := strings.TrimSpace(googleAPIKey); k != "" {
		keys["Google"] = k
	}
	return &credentials{keys: keys}
}

// ResolveAPIKey returns the key for the named provider, or false when the
// provider has no usable credential.
func (c *credentials) ResolveAPIKey(providerName string) (string, bool) {
	key, ok := c.keys[providerName]
	return key, ok
}
