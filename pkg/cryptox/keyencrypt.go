package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// MasterKeyEnv holds raw key material when no master key file is configured.
const MasterKeyEnv = "AUTH_MASTER_KEY"

var (
	masterMu   sync.Mutex
	masterKey  []byte
	masterPath string
)

// SetMasterKeyPath points the key encryption at a key file. It must be called
// before the first EncryptPrivateKey or DecryptPrivateKey.
func SetMasterKeyPath(path string) {
	masterMu.Lock()
	defer masterMu.Unlock()
	masterPath = path
	masterKey = nil
}

// ResetMasterKeyForTesting forgets the loaded master key.
func ResetMasterKeyForTesting() {
	SetMasterKeyPath("")
}

// loadMasterKey derives the AES-256 key from the file, then the env var,
// then a random key that does not survive a restart.
func loadMasterKey() ([]byte, error) {
	masterMu.Lock()
	defer masterMu.Unlock()
	if masterKey != nil {
		return masterKey, nil
	}

	var material []byte
	switch env := os.Getenv(MasterKeyEnv); {
	case masterPath != "":
		data, err := os.ReadFile(masterPath)
		if err != nil {
			return nil, fmt.Errorf("cryptox: read master key: %w", err)
		}
		material = data
	case env != "":
		material = []byte(env)
	default:
		slog.Warn("no master key configured, persisted signing keys will not survive a restart")
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("cryptox: generate master key: %w", err)
		}
	}

	sum := sha256.Sum256(material)
	masterKey = sum[:]
	return masterKey, nil
}

func masterAEAD() (cipher.AEAD, error) {
	key, err := loadMasterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// EncryptPrivateKey seals pemData with AES-256-GCM. The output is the nonce
// followed by the ciphertext and tag.
func EncryptPrivateKey(pemData []byte) ([]byte, error) {
	gcm, err := masterAEAD()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, pemData, nil), nil
}

// DecryptPrivateKey opens data produced by EncryptPrivateKey.
func DecryptPrivateKey(sealed []byte) ([]byte, error) {
	gcm, err := masterAEAD()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("cryptox: ciphertext too short")
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: decryption failed: %w", err)
	}
	return plain, nil
}
