package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads payment credentials from Vault. It is optional; when
// no Vault address is configured the service falls back to env/file config.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) read(path, key string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected payload at %s", path)
	}
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: missing key %q at %s", key, path)
	}
	return value, nil
}

// GetRazorpayCredentials returns the gateway key id and secret.
func (sm *SecretManager) GetRazorpayCredentials() (string, string, error) {
	keyID, err := sm.read("secret/data/razorpay", "key_id")
	if err != nil {
		return "", "", err
	}
	keySecret, err := sm.read("secret/data/razorpay", "key_secret")
	if err != nil {
		return "", "", err
	}
	return keyID, keySecret, nil
}

// GetWebhookSecret returns the shared webhook secret, empty if unset.
func (sm *SecretManager) GetWebhookSecret() (string, error) {
	return sm.read("secret/data/razorpay", "webhook_secret")
}

// GetDatabaseURL returns the Postgres connection string.
func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.read("secret/data/database", "connection_string")
}
