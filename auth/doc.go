// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Service Keys

Service keys use HMAC-SHA256 to create deterministic, verifiable keys for
a named resource:

	serviceKey := auth.GenerateAdminKey("security", salt)
	err := auth.ValidateAdminKey("security", serviceKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same resource name and salt always produce the same key, so ops
automation can derive it from config and validation needs no database
lookup. The security surface accepts these keys in the X-Service-Key
header.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded and presented in the X-Session-Token
header on authenticated requests.

# Profile Slugs

Profile slugs create URL-friendly identifiers for business profiles on
paid tiers:

	slug := auth.GenerateProfileSlug(userID, salt)

Slugs are base62 encoded (alphanumeric only) for easy sharing. Like admin
keys, they're deterministic from the user ID and salt.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving audit logging:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256. The audit log never
stores a raw client address.
*/
package auth
