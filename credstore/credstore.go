// Package credstore resolves provider credentials. Keys live in the OS
// keyring under the "hablare" service as "<provider>-api-key" entries,
// with process environment variables as a fallback for headless hosts.
// An absent credential is not an error: it means the provider is
// unconfigured.
package credstore

import (
	"github.com/caarlos0/env/v11"
	"github.com/zalando/go-keyring"
)

// Service is the keyring service name all entries are stored under.
const Service = "hablare"

type envCredentials struct {
	ElevenLabs string `env:"ELEVENLABS_API_KEY"`
	OpenAI     string `env:"OPENAI_API_KEY"`
}

func entryName(providerID string) string {
	return providerID + "-api-key"
}

// APIKey returns the stored credential for a provider, or "" when none
// is stored anywhere.
func APIKey(providerID string) string {
	if key, err := keyring.Get(Service, entryName(providerID)); err == nil && key != "" {
		return key
	}

	var creds envCredentials
	if err := env.Parse(&creds); err != nil {
		return ""
	}
	switch providerID {
	case "elevenlabs":
		return creds.ElevenLabs
	case "openai":
		return creds.OpenAI
	}
	return ""
}

// SetAPIKey stores a credential in the OS keyring.
func SetAPIKey(providerID, key string) error {
	return keyring.Set(Service, entryName(providerID), key)
}

// DeleteAPIKey removes a stored credential. Deleting an absent entry is
// not an error.
func DeleteAPIKey(providerID string) error {
	err := keyring.Delete(Service, entryName(providerID))
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}
