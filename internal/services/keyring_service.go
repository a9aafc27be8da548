package services

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"reportforge/internal/utils"
)

const serviceName = "reportforge"

// ArkProvider is the keyring account holding the Volcano Ark API key.
const ArkProvider = "ark"

const arkKeyEnvVar = "ARK_API_KEY"

type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

// Startup loads a project-local .env so the environment fallback works in
// development. A missing .env is not an error.
func (s *KeyringService) Startup() {
	_ = utils.LoadEnv()
}

func (s *KeyringService) StoreApiKey(provider string, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Set(serviceName, provider, apiKey)
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	return keyring.Get(serviceName, provider)
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Delete(serviceName, provider)
}

func (s *KeyringService) HasApiKey(provider string) bool {
	key, err := s.GetApiKey(provider)
	return err == nil && strings.TrimSpace(key) != ""
}

// ResolveArkKey returns the Ark credential: the keychain first, then the
// ARK_API_KEY environment variable. Empty means no credential is configured.
func (s *KeyringService) ResolveArkKey() string {
	if key, err := keyring.Get(serviceName, ArkProvider); err == nil {
		if key = strings.TrimSpace(key); key != "" {
			return key
		}
	}
	return strings.TrimSpace(os.Getenv(arkKeyEnvVar))
}
