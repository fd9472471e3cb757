package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestCredentialsLoadMissingFile(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	if err := store.Load(t.TempDir()); err != nil {
		t.Fatalf("Load() on empty data dir = %v", err)
	}
	if got := store.Get("openai"); got != "" {
		t.Errorf("Get on empty store = %q, want empty", got)
	}
}

func TestCredentialsPlainTextRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	store.Set("openai", "sk-first")
	store.Set("anthropic", "sk-ant")
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	loaded := NewCredentialStore(SecurityPlainText, "")
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got := loaded.Get("openai"); got != "sk-first" {
		t.Errorf("Get(openai) = %q, want sk-first", got)
	}
	if got := loaded.Get("anthropic"); got != "sk-ant" {
		t.Errorf("Get(anthropic) = %q, want sk-ant", got)
	}

	// Overwriting a key and saving again replaces the stored value.
	loaded.Set("openai", "sk-second")
	if err := loaded.Save(dataDir); err != nil {
		t.Fatalf("second Save() = %v", err)
	}
	reloaded := NewCredentialStore(SecurityPlainText, "")
	if err := reloaded.Load(dataDir); err != nil {
		t.Fatalf("second Load() = %v", err)
	}
	if got := reloaded.Get("openai"); got != "sk-second" {
		t.Errorf("Get(openai) after overwrite = %q, want sk-second", got)
	}
}

func TestCredentialsSSHKeyRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	keyPath := writeTestSSHKey(t)

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	store.Set("openai", "sk-secret")
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	// The file on disk must not contain the key in the clear.
	raw, err := os.ReadFile(filepath.Join(dataDir, "credentials.toml"))
	if err != nil {
		t.Fatalf("reading credentials file: %v", err)
	}
	if strings.Contains(string(raw), "sk-secret") {
		t.Error("credentials file contains the plaintext API key")
	}

	loaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got := loaded.Get("openai"); got != "sk-secret" {
		t.Errorf("Get(openai) = %q, want sk-secret", got)
	}
}

func writeTestSSHKey(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}

	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatalf("writing key: %v", err)
	}
	return keyPath
}
