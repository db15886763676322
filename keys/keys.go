// Package keys manages the Ed25519 signing key pair used for token issuance.
//
// The private key is persisted as an unencrypted PKCS#8 PEM file at a
// configured path. On first start the pair is generated and written with
// restrictive permissions; on subsequent starts it is loaded from disk. A
// Manager is constructed once at startup and shared read-only afterwards.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nazonexus/identity/errors"
	"github.com/nazonexus/identity/logger"
)

const pemBlockType = "PRIVATE KEY"

// Manager owns the process-wide Ed25519 key pair.
type Manager struct {
	path string
	log  *logger.Logger

	mu   sync.Mutex
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewManager creates a Manager for the key file at path. No I/O happens until
// Load is called.
func NewManager(path string, log *logger.Logger) *Manager {
	return &Manager{path: path, log: log.WithComponent("keys")}
}

// Load reads the key file if it exists, otherwise generates a fresh pair and
// persists it. Load is idempotent and safe for concurrent use: exactly one
// caller performs the initialization, later callers observe the same key
// material. Once loaded, the pair is never regenerated for the process
// lifetime.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.priv != nil {
		return nil
	}

	data, err := os.ReadFile(m.path)
	switch {
	case err == nil:
		priv, parseErr := parsePrivateKey(data)
		if parseErr != nil {
			return errors.KeyCorrupt(m.path, parseErr)
		}
		m.priv = priv
		m.pub = priv.Public().(ed25519.PublicKey)
		m.log.Debug("loaded signing key", logger.Fields(logger.FieldPath, m.path))
		return nil
	case os.IsNotExist(err):
		return m.generate()
	default:
		return errors.KeyStorage(m.path, err)
	}
}

// generate creates a new pair and writes the private key. Caller holds m.mu.
func (m *Manager) generate() error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return errors.KeyStorage(m.path, err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return errors.KeyStorage(m.path, err)
	}
	pemData := pem.EncodeToMemory(&pem.Block{Type: pemBlockType, Bytes: der})

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.KeyStorage(m.path, err)
	}
	if err := os.WriteFile(m.path, pemData, 0o600); err != nil {
		return errors.KeyStorage(m.path, err)
	}

	m.priv = priv
	m.pub = pub
	m.log.Info("generated new signing key", logger.Fields(logger.FieldPath, m.path))
	return nil
}

// Private returns the loaded private key. Load must have succeeded first.
func (m *Manager) Private() ed25519.PrivateKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priv
}

// Public returns the loaded public key. Load must have succeeded first.
func (m *Manager) Public() ed25519.PublicKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pub
}

// Sign signs message with the private key.
func (m *Manager) Sign(message []byte) []byte {
	return ed25519.Sign(m.Private(), message)
}

// VerifySignature reports whether sig is a valid signature of message.
func (m *Manager) VerifySignature(message, sig []byte) bool {
	return ed25519.Verify(m.Public(), message, sig)
}

func parsePrivateKey(pemData []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil || block.Type != pemBlockType {
		return nil, fmt.Errorf("no %s PEM block found", pemBlockType)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKCS#8: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is %T, want ed25519", key)
	}
	return priv, nil
}
