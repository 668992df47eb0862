package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"
)

const cookieFileName = ".session_cookies"

// storedCookie is the on-disk form of a cookie the server set.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

type cookieFile struct {
	Origins map[string][]storedCookie `json:"origins"`
}

// CookieStore is an http.CookieJar whose contents survive across CLI runs.
// Session tokens live only in server-set cookies; nothing here interprets
// them, it only replays what the server sent.
type CookieStore struct {
	file       string
	encryptKey []byte

	mu      sync.Mutex
	jar     *cookiejar.Jar
	origins map[string][]storedCookie
	now     func() time.Time
}

// NewCookieStore opens (or creates) the store under dir. A leading "~/" is
// expanded to the user's home directory.
func NewCookieStore(dir string) (*CookieStore, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cookie directory: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	s := &CookieStore{
		file:       filepath.Join(dir, cookieFileName),
		encryptKey: generateEncryptionKey(),
		jar:        jar,
		origins:    make(map[string][]storedCookie),
		now:        time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetCookies implements http.CookieJar.
func (s *CookieStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jar.SetCookies(u, cookies)

	key := originKey(u)
	stored := s.origins[key]
	for _, c := range cookies {
		stored = upsertCookie(stored, c, s.now())
	}
	if len(stored) == 0 {
		delete(s.origins, key)
		return
	}
	s.origins[key] = stored
}

// Cookies implements http.CookieJar.
func (s *CookieStore) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jar.Cookies(u)
}

// Save writes the current cookies to disk, encrypted, with owner-only access.
func (s *CookieStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneExpired()

	data, err := json.Marshal(cookieFile{Origins: s.origins})
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	encrypted, err := s.encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt cookies: %w", err)
	}

	if err := os.WriteFile(s.file, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// Clear drops every cookie in memory and on disk.
func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	s.jar = jar
	s.origins = make(map[string][]storedCookie)

	if err := os.Remove(s.file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}

// Path returns the backing file.
func (s *CookieStore) Path() string {
	return s.file
}

func (s *CookieStore) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	decrypted, err := s.decrypt(data)
	if err != nil {
		// A file from another machine or user cannot be read; start clean.
		return nil
	}

	var f cookieFile
	if err := json.Unmarshal(decrypted, &f); err != nil {
		return fmt.Errorf("failed to unmarshal cookie file: %w", err)
	}

	now := s.now()
	for origin, stored := range f.Origins {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		live := make([]storedCookie, 0, len(stored))
		cookies := make([]*http.Cookie, 0, len(stored))
		for _, sc := range stored {
			if !sc.Expires.IsZero() && !sc.Expires.After(now) {
				continue
			}
			live = append(live, sc)
			cookies = append(cookies, sc.toCookie())
		}
		if len(live) == 0 {
			continue
		}
		s.origins[origin] = live
		s.jar.SetCookies(u, cookies)
	}
	return nil
}

func (s *CookieStore) pruneExpired() {
	now := s.now()
	for origin, stored := range s.origins {
		live := stored[:0]
		for _, sc := range stored {
			if sc.Expires.IsZero() || sc.Expires.After(now) {
				live = append(live, sc)
			}
		}
		if len(live) == 0 {
			delete(s.origins, origin)
			continue
		}
		s.origins[origin] = live
	}
}

func upsertCookie(stored []storedCookie, c *http.Cookie, now time.Time) []storedCookie {
	sc := storedCookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if c.MaxAge > 0 {
		sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	}
	deleted := c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now))

	out := stored[:0]
	for _, existing := range stored {
		if existing.Name == sc.Name && existing.Path == sc.Path && existing.Domain == sc.Domain {
			continue
		}
		out = append(out, existing)
	}
	if !deleted {
		out = append(out, sc)
	}
	return out
}

func (sc storedCookie) toCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sc.Name,
		Value:    sc.Value,
		Path:     sc.Path,
		Domain:   sc.Domain,
		Expires:  sc.Expires,
		Secure:   sc.Secure,
		HttpOnly: sc.HttpOnly,
	}
}

func originKey(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func (s *CookieStore) encrypt(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func (s *CookieStore) decrypt(data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// generateEncryptionKey derives a per-machine, per-user key so a copied
// cookie file is useless elsewhere.
func generateEncryptionKey() []byte {
	hostname, _ := os.Hostname()
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME") // Windows
	}

	ikm := []byte(fmt.Sprintf("%s:%s", hostname, user))
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte("salonathome-cli cookies")), key); err != nil {
		// hkdf only fails past 255 blocks of output
		panic(err)
	}
	return key
}

var _ http.CookieJar = (*CookieStore)(nil)
