package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/onehilltech/gatekeeper-go/token"
)

const (
	keyLength   = 32
	nonceLength = 24
	fileMode    = 0o600
)

var ErrCiphertextTooShort = errors.New("store: ciphertext too short")

// FileStore persists the user token as a JSON file, optionally encrypted
// at rest with a secretbox key.
type FileStore struct {
	path string
	key  *[keyLength]byte
}

var _ TokenStore = (*FileStore)(nil)

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore) error

// WithEncryptionKey enables at-rest encryption. The key must be exactly
// 32 bytes.
func WithEncryptionKey(key []byte) FileStoreOption {
	return func(fs *FileStore) error {
		if len(key) != keyLength {
			return fmt.Errorf("store: encryption key must be %d bytes, got %d", keyLength, len(key))
		}
		fs.key = new([keyLength]byte)
		copy(fs.key[:], key)
		return nil
	}
}

// NewFileStore creates a file-backed token store at path.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	fs := &FileStore{path: path}
	for _, opt := range opts {
		if err := opt(fs); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Load implements TokenStore.
func (fs *FileStore) Load(_ context.Context) (*token.UserToken, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load token: %w", err)
	}

	if fs.key != nil {
		if data, err = fs.open(data); err != nil {
			return nil, fmt.Errorf("store: load token: %w", err)
		}
	}

	var t token.UserToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("store: load token: %w", err)
	}
	return &t, nil
}

// Save implements TokenStore.
func (fs *FileStore) Save(_ context.Context, t *token.UserToken) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}

	if fs.key != nil {
		if data, err = fs.seal(data); err != nil {
			return fmt.Errorf("store: save token: %w", err)
		}
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("store: save token: %w", err)
		}
	}
	if err := os.WriteFile(fs.path, data, fileMode); err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}
	return nil
}

// Delete implements TokenStore.
func (fs *FileStore) Delete(ctx context.Context, username string) error {
	t, err := fs.Load(ctx)
	if err != nil || t == nil {
		return err
	}
	if t.Username != username {
		return nil
	}
	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: delete token: %w", err)
	}
	return nil
}

func (fs *FileStore) seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, fs.key), nil
}

func (fs *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceLength {
		return nil, ErrCiphertextTooShort
	}
	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])

	plaintext, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, fs.key)
	if !ok {
		return nil, errors.New("store: decryption failed")
	}
	return plaintext, nil
}
