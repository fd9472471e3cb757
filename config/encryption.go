package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh"
)

// EncryptionManager derives an AES-256 key from an SSH private key and
// encrypts credential data with it. The key is derived from a signature
// over a fixed label, so the same SSH key always yields the same AES key
// without storing any key material alongside the ciphertext.
type EncryptionManager struct {
	sshKeyPath string
	aesKey     []byte
}

// NewEncryptionManager creates a manager for the given SSH private key.
func NewEncryptionManager(sshKeyPath string) *EncryptionManager {
	return &EncryptionManager{sshKeyPath: sshKeyPath}
}

// Initialize loads the SSH key and derives the AES key. Safe to call
// repeatedly; later calls are no-ops.
func (e *EncryptionManager) Initialize() error {
	if e.aesKey != nil {
		return nil
	}
	if e.sshKeyPath == "" {
		return fmt.Errorf("ssh_key_path is required for ssh_key credentials")
	}

	keyData, err := os.ReadFile(e.sshKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH key: %w", err)
	}

	// Deterministic derivation label; must never change or stored
	// credentials become unreadable.
	sig, err := signer.Sign(deterministicReader{}, []byte("vact-credential-key-v1"))
	if err != nil {
		return fmt.Errorf("failed to derive encryption key: %w", err)
	}

	sum := sha256.Sum256(sig.Blob)
	e.aesKey = sum[:]
	return nil
}

// Encrypt seals plaintext with AES-256-GCM.
// Format: [nonce (12 bytes)][ciphertext + tag]
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt.
func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

func (e *EncryptionManager) gcm() (cipher.AEAD, error) {
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}
	block, err := aes.NewCipher(e.aesKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// deterministicReader feeds zero bytes so signature-based key derivation
// is stable for key types that consume randomness.
type deterministicReader struct{}

func (deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
