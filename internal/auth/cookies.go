// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/user"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// PERSISTENT COOKIE JAR
// =============================================================================

// The session cookie is the only credential this client holds, so
// keeping it across runs is what makes the TUI stay logged in. The jar
// is sealed to disk with chacha20poly1305 under a scrypt-derived,
// machine-scoped key: the file is useless copied to another machine,
// and unreadable without the local account.

const (
	saltSize = 32

	// scrypt parameters, interactive-grade.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// storedCookie is the serialized form of one cookie.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

// PersistentJar is an http.CookieJar that seals the backend origin's
// cookies to disk after every change. It is safe for concurrent use.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	origin *url.URL
	path   string
}

// NewPersistentJar creates a jar persisted at path, restoring any
// previously sealed cookies for origin. A corrupt or undecryptable
// file starts the jar empty rather than failing.
func NewPersistentJar(origin, path string) (*PersistentJar, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	p := &PersistentJar{jar: jar, origin: u, path: path}
	p.restore()
	return p, nil
}

// SetCookies stores cookies and persists the origin's jar contents.
func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jar.SetCookies(u, cookies)
	p.persist()
}

// Cookies returns the cookies to send in a request to u.
func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jar.Cookies(u)
}

// Clear drops all cookies and removes the sealed file.
func (p *PersistentJar) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// cookiejar has no delete; a fresh jar is the reset.
	if jar, err := cookiejar.New(nil); err == nil {
		p.jar = jar
	}
	os.Remove(p.path)
}

// persist seals the origin's current cookies to disk. Called with the
// lock held. Failures are swallowed: persistence is best-effort and
// the in-memory jar stays authoritative.
func (p *PersistentJar) persist() {
	cookies := p.jar.Cookies(p.origin)
	if len(cookies) == 0 {
		os.Remove(p.path)
		return
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}

	plaintext, err := json.Marshal(stored)
	if err != nil {
		return
	}
	sealed, err := seal(plaintext)
	if err != nil {
		return
	}
	util.AtomicWriteFile(p.path, sealed, 0600)
}

// restore loads previously sealed cookies into the jar.
func (p *PersistentJar) restore() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return
	}
	plaintext, err := unseal(data)
	if err != nil {
		// Wrong machine or corrupt file: start empty.
		os.Remove(p.path)
		return
	}

	var stored []storedCookie
	if err := json.Unmarshal(plaintext, &stored); err != nil {
		return
	}

	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		if !s.Expires.IsZero() && s.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:     s.Name,
			Value:    s.Value,
			Path:     s.Path,
			Domain:   s.Domain,
			Expires:  s.Expires,
			Secure:   s.Secure,
			HttpOnly: s.HttpOnly,
		})
	}
	p.jar.SetCookies(p.origin, cookies)
}

// =============================================================================
// SEALING
// =============================================================================

// File layout: salt | nonce | ciphertext.

// seal encrypts plaintext under a fresh salt and nonce.
func seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	key, err := deriveKey(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// unseal reverses seal.
func unseal(data []byte) ([]byte, error) {
	if len(data) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("sealed data too short")
	}
	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	ciphertext := data[saltSize+chacha20poly1305.NonceSizeX:]

	key, err := deriveKey(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, nil)
}

// deriveKey derives the sealing key from a machine-scoped secret. The
// secret is stable across runs on the same host and account, and
// worthless anywhere else.
func deriveKey(salt []byte) ([]byte, error) {
	secret := machineSecret()
	return scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
}

func machineSecret() string {
	hostname, _ := os.Hostname()
	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Uid + ":" + u.Username
	}
	return "parley:" + hostname + ":" + username
}
