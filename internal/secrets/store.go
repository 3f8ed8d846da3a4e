// Package secrets keeps the remembered sign-in token in a per-user file (0600),
// obfuscated with AES-GCM.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const fileName = "session.json"

var (
	// ErrNotFound is returned when no token is stored under a key.
	ErrNotFound = errors.New("secrets: not found")
	// ErrCorrupt is returned when the token file cannot be decoded.
	ErrCorrupt = errors.New("secrets: corrupt token file")
)

type secretFile struct {
	Tokens map[string]string `json:"tokens"` // key -> base64(ciphertext)
}

// Store is a file-backed token store rooted at a directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore returns a store writing under dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save encrypts and persists token under key. A corrupt file is replaced.
func (s *Store) Save(key, token string) error {
	if key = norm(key); key == "" {
		return fmt.Errorf("secrets: key required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := s.filePath()
	if err != nil {
		return err
	}
	sf, err := load(path)
	if errors.Is(err, ErrCorrupt) {
		sf, err = secretFile{}, nil
	}
	if err != nil {
		return err
	}
	if sf.Tokens == nil {
		sf.Tokens = map[string]string{}
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return err
	}
	sf.Tokens[key] = base64.StdEncoding.EncodeToString(ct)
	return save(path, sf)
}

// Load returns the token stored under key or ErrNotFound.
func (s *Store) Load(key string) (string, error) {
	if key = norm(key); key == "" {
		return "", fmt.Errorf("secrets: key required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := s.filePath()
	if err != nil {
		return "", err
	}
	sf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := sf.Tokens[key]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("secrets: decode: %w", err)
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt: %w", err)
	}
	return string(pt), nil
}

// Delete removes key. Deleting a missing key is not an error; a corrupt file
// is removed.
func (s *Store) Delete(key string) error {
	if key = norm(key); key == "" {
		return fmt.Errorf("secrets: key required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := s.filePath()
	if err != nil {
		return err
	}
	sf, err := load(path)
	if errors.Is(err, ErrCorrupt) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := sf.Tokens[key]; !ok {
		return nil
	}
	delete(sf.Tokens, key)
	return save(path, sf)
}

func (s *Store) filePath() (string, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, fileName), nil
}

func load(path string) (secretFile, error) {
	var sf secretFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return secretFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return secretFile{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return sf, nil
}

func save(path string, sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func masterKey() []byte {
	base := fmt.Sprintf("wastewise-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
