// Package keystore provides an in-memory storage for auth keys.
package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrKeyNotFound = errors.New("key not found")

const maxPEMSize = 1024 * 1024 //1MB

type Key struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

type KeyStore struct {
	store     map[string]Key
	mu        sync.RWMutex
	activeKey string
}

func New() *KeyStore {
	return &KeyStore{
		store: make(map[string]Key),
	}
}

// LoadFromFileSystem walks the fs and loads every .pem private key it finds.
// The filename without extension becomes the key id.
func (ks *KeyStore) LoadFromFileSystem(fsys fs.FS) (int, error) {
	walker := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		if d.IsDir() {
			// Kubernetes secrets are mounted through a symlink structure that
			// makes the walker see the same file twice, skip the internal dirs.
			if strings.HasPrefix(d.Name(), "..") {
				return fs.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".pem" {
			return nil
		}

		file, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("opening file %s: %w", path, err)
		}

		defer file.Close()

		pemBytes, err := io.ReadAll(io.LimitReader(file, maxPEMSize))
		if err != nil {
			return fmt.Errorf("readAll: %w", err)
		}

		pemBlock, _ := pem.Decode(pemBytes)
		if pemBlock == nil || pemBlock.Type != "PRIVATE KEY" {
			return fmt.Errorf("invalid pem bytes: key must be either in PKCS1 or PKCS8")
		}

		var parsedKey any
		parsedKey, err = x509.ParsePKCS1PrivateKey(pemBlock.Bytes)
		if err != nil {
			parsedKey, err = x509.ParsePKCS8PrivateKey(pemBlock.Bytes)
			if err != nil {
				return fmt.Errorf("failed to parse private key as PKCS1 or PKCS8: %w", err)
			}
		}

		privateKey, ok := parsedKey.(*rsa.PrivateKey)
		if !ok {
			return errors.New("key is not a valid rsa private key")
		}

		id := strings.TrimSuffix(filepath.Base(path), ".pem")

		key := Key{
			private: privateKey,
			public:  &privateKey.PublicKey,
		}

		ks.mu.Lock()
		defer ks.mu.Unlock()
		ks.store[id] = key
		return nil
	}

	if err := fs.WalkDir(fsys, ".", walker); err != nil {
		return 0, fmt.Errorf("walkDir: %w", err)
	}

	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.store), nil
}

// GenerateKey creates an ephemeral rsa key, registers it under a fresh kid
// and marks it active. Used by dev setups and tests that have nothing mounted.
func (ks *KeyStore) GenerateKey() (string, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", fmt.Errorf("generateKey: %w", err)
	}

	kid := uuid.NewString()

	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.store[kid] = Key{
		private: privateKey,
		public:  &privateKey.PublicKey,
	}
	ks.activeKey = kid

	return kid, nil
}

func (ks *KeyStore) PrivateKey(kid string) (*rsa.PrivateKey, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	k, ok := ks.store[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return k.private, nil
}

func (ks *KeyStore) PublicKey(kid string) (*rsa.PublicKey, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	k, ok := ks.store[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return k.public, nil
}

func (ks *KeyStore) SetActiveKey(key string) error {
	found := func() bool {
		ks.mu.RLock()
		defer ks.mu.RUnlock()
		_, ok := ks.store[key]
		return ok
	}()

	if !found {
		return fmt.Errorf("key[%s] not found in keystore", key)
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.activeKey = key
	return nil
}

func (ks *KeyStore) GetActiveKid() string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.activeKey
}
