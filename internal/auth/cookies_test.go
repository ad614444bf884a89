// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSealUnseal_RoundTrip(t *testing.T) {
	plaintext := []byte(`[{"name":"session","value":"secret-token"}]`)

	sealed, err := seal(plaintext)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if bytes.Contains(sealed, []byte("secret-token")) {
		t.Error("sealed data leaks plaintext")
	}

	opened, err := unseal(sealed)
	if err != nil {
		t.Fatalf("unseal failed: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("round trip mismatch: %q", opened)
	}
}

func TestUnseal_RejectsTampering(t *testing.T) {
	sealed, err := seal([]byte("data"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	sealed[len(sealed)-1] ^= 0xFF
	if _, err := unseal(sealed); err == nil {
		t.Error("tampered ciphertext should not unseal")
	}

	if _, err := unseal([]byte("short")); err == nil {
		t.Error("truncated data should not unseal")
	}
}

func TestPersistentJar_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.sealed")
	const origin = "http://127.0.0.1:8000"

	jar, err := NewPersistentJar(origin, path)
	if err != nil {
		t.Fatalf("NewPersistentJar failed: %v", err)
	}

	u, _ := url.Parse(origin)
	jar.SetCookies(u, []*http.Cookie{{
		Name:    "session",
		Value:   "tok123",
		Path:    "/",
		Expires: time.Now().Add(time.Hour),
	}})

	// A second jar at the same path plays the role of the next run.
	reborn, err := NewPersistentJar(origin, path)
	if err != nil {
		t.Fatalf("NewPersistentJar (restart) failed: %v", err)
	}

	cookies := reborn.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value != "tok123" {
		t.Errorf("restored cookies = %v", cookies)
	}
}

func TestPersistentJar_RestoreFiltersExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.sealed")
	const origin = "http://127.0.0.1:8000"

	// Seal a file containing one live and one expired cookie directly,
	// the way a previous run would have left it.
	stored := []storedCookie{
		{Name: "session", Value: "live", Path: "/", Expires: time.Now().Add(time.Hour)},
		{Name: "old", Value: "dead", Path: "/", Expires: time.Now().Add(-time.Hour)},
	}
	plaintext, err := json.Marshal(stored)
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := seal(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, sealed, 0600); err != nil {
		t.Fatal(err)
	}

	jar, err := NewPersistentJar(origin, path)
	if err != nil {
		t.Fatalf("NewPersistentJar failed: %v", err)
	}
	u, _ := url.Parse(origin)
	cookies := jar.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != "session" {
		t.Errorf("restore should keep only the live cookie, got %v", cookies)
	}
}

func TestPersistentJar_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.sealed")
	const origin = "http://127.0.0.1:8000"

	jar, err := NewPersistentJar(origin, path)
	if err != nil {
		t.Fatalf("NewPersistentJar failed: %v", err)
	}

	u, _ := url.Parse(origin)
	jar.SetCookies(u, []*http.Cookie{{
		Name: "session", Value: "x", Path: "/", Expires: time.Now().Add(time.Hour),
	}})
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sealed file should exist: %v", err)
	}

	jar.Clear()
	if len(jar.Cookies(u)) != 0 {
		t.Error("Clear should drop in-memory cookies")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Clear should remove the sealed file")
	}
}

func TestPersistentJar_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.sealed")
	if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	jar, err := NewPersistentJar("http://127.0.0.1:8000", path)
	if err != nil {
		t.Fatalf("corrupt file should not fail construction: %v", err)
	}
	u, _ := url.Parse("http://127.0.0.1:8000")
	if len(jar.Cookies(u)) != 0 {
		t.Error("corrupt file should yield an empty jar")
	}
}
