package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32

	saltLength     = 16
	keyVersion     = 1
	keyAlgorithm   = "argon2id/xchacha20-poly1305"
	keyPermissions = 0600

	MinPassphraseLength = 8
)

var (
	ErrNotInitialized = errors.New("payload key not initialized, run `adledger init`")
	ErrAlreadyExists  = errors.New("payload key already initialized")
	ErrWrongPassword  = errors.New("wrong passphrase")
	ErrWeakPassphrase = fmt.Errorf("passphrase must be at least %d characters", MinPassphraseLength)
)

// KeyHeader is the on-disk description of the payload key. The key itself
// is never stored; it is re-derived from the passphrase and salt.
type KeyHeader struct {
	Version   int       `json:"version"`
	Algorithm string    `json:"algorithm"`
	Salt      string    `json:"salt"`
	KeyHash   string    `json:"key_hash"`
	CreatedAt time.Time `json:"created_at"`
}

// InitKey creates a key header at path for passphrase and returns the
// derived key.
func InitKey(path string, passphrase []byte) ([]byte, error) {
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrWeakPassphrase
	}
	if _, err := os.Stat(path); err == nil {
		return nil, ErrAlreadyExists
	}

	salt, err := GenerateRandomBytes(saltLength)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := DeriveKey(passphrase, salt)
	sum := sha256.Sum256(key)

	header := KeyHeader{
		Version:   keyVersion,
		Algorithm: keyAlgorithm,
		Salt:      hex.EncodeToString(salt),
		KeyHash:   hex.EncodeToString(sum[:]),
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode key header: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, keyPermissions); err != nil {
		return nil, fmt.Errorf("write key header: %w", err)
	}

	return key, nil
}

// UnlockKey re-derives the key from passphrase and checks it against the
// stored hash.
func UnlockKey(path string, passphrase []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("read key header: %w", err)
	}

	var header KeyHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("decode key header: %w", err)
	}
	if header.Version != keyVersion {
		return nil, fmt.Errorf("unsupported key version %d", header.Version)
	}

	salt, err := hex.DecodeString(header.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	want, err := hex.DecodeString(header.KeyHash)
	if err != nil {
		return nil, fmt.Errorf("decode key hash: %w", err)
	}

	key := DeriveKey(passphrase, salt)
	sum := sha256.Sum256(key)
	if subtle.ConstantTimeCompare(sum[:], want) != 1 {
		ClearMemory(key)
		return nil, ErrWrongPassword
	}

	return key, nil
}

// IsInitialized reports whether a key header exists at path.
func IsInitialized(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}
