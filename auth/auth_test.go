// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		resourceID string
		salt       string
	}{
		{"standard", "resource123", "secret-salt"},
		{"empty resource id", "", "salt"},
		{"empty salt", "resource456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.resourceID, tt.salt)

			// Should not be empty
			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.resourceID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.resourceID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.resourceID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different resource IDs")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	resourceID := "test-resource-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(resourceID, salt)

	tests := []struct {
		name       string
		resourceID string
		adminKey   string
		salt       string
		wantErr    bool
	}{
		{"valid key", resourceID, validKey, salt, false},
		{"wrong key", resourceID, "wrong-key", salt, true},
		{"wrong resource id", "different-resource", validKey, salt, true},
		{"wrong salt", resourceID, validKey, "different-salt", true},
		{"empty key", resourceID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.resourceID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateSessionToken() returned empty string")
	}
	if strings.Contains(token, "=") {
		t.Error("GenerateSessionToken() contains padding characters")
	}

	token2, _ := GenerateSessionToken()
	if token == token2 {
		t.Error("GenerateSessionToken() produced duplicate tokens (extremely unlikely)")
	}
}

func TestGenerateProfileSlug(t *testing.T) {
	slug := GenerateProfileSlug("user-1", "salt")

	// Deterministic
	if slug != GenerateProfileSlug("user-1", "salt") {
		t.Error("GenerateProfileSlug() is not deterministic")
	}

	// Different users get different slugs
	if slug == GenerateProfileSlug("user-2", "salt") {
		t.Error("GenerateProfileSlug() produced same slug for different users")
	}

	// Different salts get different slugs
	if slug == GenerateProfileSlug("user-1", "other-salt") {
		t.Error("GenerateProfileSlug() produced same slug for different salts")
	}

	// Alphanumeric only
	for _, c := range slug {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			t.Errorf("GenerateProfileSlug() contains non-base62 char: %c", c)
		}
	}
}

func TestHashIP(t *testing.T) {
	hash := HashIP("192.168.1.1", "salt")

	if len(hash) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(hash))
	}

	// Deterministic
	if hash != HashIP("192.168.1.1", "salt") {
		t.Error("HashIP() is not deterministic")
	}

	// Different IPs produce different hashes
	if hash == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}

	// The raw IP must not appear in the hash
	if strings.Contains(hash, "192") {
		t.Error("HashIP() may leak the raw IP")
	}
}
