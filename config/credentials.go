package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines how credentials are stored at rest.
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// CredentialStore manages API keys per agent backend, stored in
// credentials.toml either plain or encrypted with an SSH-key-derived
// AES key.
type CredentialStore struct {
	method      SecurityMethod
	credentials map[string]string // backend → API key
	encManager  *EncryptionManager
}

// NewCredentialStore creates a credential store for the given method.
// For SecuritySSHKey, sshKeyPath names the private key the AES key is
// derived from.
func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	store := &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
	}
	if method == SecuritySSHKey {
		store.encManager = NewEncryptionManager(ExpandPath(sshKeyPath))
	}
	return store
}

// Get retrieves the API key for a backend, or "".
func (c *CredentialStore) Get(backend string) string {
	return c.credentials[backend]
}

// Set stores an API key for a backend.
func (c *CredentialStore) Set(backend, apiKey string) {
	c.credentials[backend] = apiKey
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

// Load reads credentials.toml from the data directory. A missing file is
// not an error; the store is simply empty.
func (c *CredentialStore) Load(dataDir string) error {
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return fmt.Errorf("failed to parse credentials: %w", err)
	}

	if c.method == SecurityPlainText {
		c.credentials = cf.Credentials
		if c.credentials == nil {
			c.credentials = make(map[string]string)
		}
		return nil
	}

	if err := c.encManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}
	creds := make(map[string]string, len(cf.Credentials))
	for backend, encoded := range cf.Credentials {
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("failed to decode credential for %s: %w", backend, err)
		}
		plaintext, err := c.encManager.Decrypt(ciphertext)
		if err != nil {
			return fmt.Errorf("failed to decrypt credential for %s: %w", backend, err)
		}
		creds[backend] = string(plaintext)
	}
	c.credentials = creds
	return nil
}

// Save writes credentials.toml into the data directory.
func (c *CredentialStore) Save(dataDir string) error {
	out := make(map[string]string, len(c.credentials))

	if c.method == SecurityPlainText {
		for backend, key := range c.credentials {
			out[backend] = key
		}
	} else {
		if err := c.encManager.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize encryption: %w", err)
		}
		for backend, key := range c.credentials {
			ciphertext, err := c.encManager.Encrypt([]byte(key))
			if err != nil {
				return fmt.Errorf("failed to encrypt credential for %s: %w", backend, err)
			}
			out[backend] = base64.StdEncoding.EncodeToString(ciphertext)
		}
	}

	f, err := os.OpenFile(credentialsPath(dataDir), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(credentialsFile{Credentials: out})
}
