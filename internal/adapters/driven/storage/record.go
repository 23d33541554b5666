// Package storage holds the persisted token record shared by the credential
// store backends. Subpackages implement driven.CredentialStore.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// Record field names.
//
//nolint:gosec // G101: field names, not credentials.
const (
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldScope       = "scope"
	FieldExpiresIn   = "expires_in"
	FieldExpiresAt   = "expires_at"
)

// ErrNoAccessToken is returned when a record lacks an access_token.
var ErrNoAccessToken = errors.New("record has no access_token")

// EncodeToken serialises token as a flat JSON object. Extra fields from
// token.Raw are written alongside the known ones; known fields win.
func EncodeToken(token domain.AccessToken) ([]byte, error) {
	if token.Value == "" {
		return nil, ErrNoAccessToken
	}

	record := maps.Clone(token.Raw)
	if record == nil {
		record = make(map[string]any)
	}
	record[FieldAccessToken] = token.Value
	record[FieldTokenType] = token.TokenType
	record[FieldScope] = token.Scope
	if !token.ExpiresAt.IsZero() {
		record[FieldExpiresAt] = token.ExpiresAt.UTC().Format(time.RFC3339Nano)
	} else {
		delete(record, FieldExpiresAt)
	}

	return json.MarshalIndent(record, "", "  ")
}

// DecodeToken parses a record written by EncodeToken.
// A record without expires_at decodes with a zero expiry and is therefore expired.
func DecodeToken(data []byte) (*domain.AccessToken, error) {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode token record: %w", err)
	}

	value, _ := record[FieldAccessToken].(string)
	if value == "" {
		return nil, ErrNoAccessToken
	}

	token := &domain.AccessToken{Value: value}
	token.TokenType, _ = record[FieldTokenType].(string)
	token.Scope, _ = record[FieldScope].(string)

	if raw, ok := record[FieldExpiresAt]; ok {
		text, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("decode token record: %s is %T, want string", FieldExpiresAt, raw)
		}
		expiresAt, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, fmt.Errorf("decode token record: %s: %w", FieldExpiresAt, err)
		}
		token.ExpiresAt = expiresAt
	}

	for _, known := range []string{FieldAccessToken, FieldTokenType, FieldScope, FieldExpiresAt} {
		delete(record, known)
	}
	if len(record) > 0 {
		token.Raw = record
	}
	return token, nil
}
