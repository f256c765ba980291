// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidOrganizerKey = errors.New("invalid organizer key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOrganizerKey creates an HMAC-based key for an event's organizer.
// This is deterministic and verifiable, so it never needs to be stored.
func GenerateOrganizerKey(eventID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(eventID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateOrganizerKey checks if the provided key is valid for the event
func ValidateOrganizerKey(eventID, organizerKey, salt string) error {
	expected := GenerateOrganizerKey(eventID, salt)
	if !hmac.Equal([]byte(organizerKey), []byte(expected)) {
		return ErrInvalidOrganizerKey
	}
	return nil
}

// GenerateParticipantToken creates a random secure token for a participant.
// The token identifies the participant on submissions and suggestion reads.
func GenerateParticipantToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate participant token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
