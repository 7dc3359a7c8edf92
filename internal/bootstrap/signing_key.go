package bootstrap

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// SigningKeySource records where the JWT signing key came from.
type SigningKeySource string

const (
	defaultSigningKey     = "change-me"
	signingKeySettingKey  = "auth_signing_key"
	signingKeyCategory    = "security"
	signingKeyRandomBytes = 32

	SigningKeySourceConfig    SigningKeySource = "config"
	SigningKeySourceSettings  SigningKeySource = "settings"
	SigningKeySourceGenerated SigningKeySource = "generated"
)

// ResolveSigningKey resolves the JWT signing key with priority
// config/env > settings row > generate-and-persist. Generating once and
// persisting keeps sessions valid across restarts on fresh installs.
func ResolveSigningKey(ctx context.Context, db *sql.DB, configuredKey string, now func() time.Time) (string, SigningKeySource, error) {
	return resolveSigningKey(ctx, db, configuredKey, now, rand.Reader)
}

func resolveSigningKey(ctx context.Context, db *sql.DB, configuredKey string, now func() time.Time, randReader io.Reader) (string, SigningKeySource, error) {
	configured := strings.TrimSpace(configuredKey)
	if configured != "" && configured != defaultSigningKey {
		return configured, SigningKeySourceConfig, nil
	}

	if db == nil {
		return "", "", fmt.Errorf("resolve signing key: db is required when auth.signing_key uses the default value; set FRESH_AUTH_SIGNING_KEY")
	}
	if now == nil {
		now = time.Now
	}
	if randReader == nil {
		randReader = rand.Reader
	}

	existing, err := readSigningKeySetting(ctx, db)
	if err != nil {
		return "", "", fmt.Errorf("read signing key from settings: %w", err)
	}
	if existing != "" {
		return existing, SigningKeySourceSettings, nil
	}

	generated, err := generateSigningKey(randReader)
	if err != nil {
		return "", "", fmt.Errorf("generate signing key: %w", err)
	}
	if err := insertSigningKeyIfMissing(ctx, db, generated, now().Unix()); err != nil {
		return "", "", fmt.Errorf("persist signing key: %w", err)
	}

	// Re-read in case a concurrent instance won the insert race.
	resolved, err := readSigningKeySetting(ctx, db)
	if err != nil {
		return "", "", fmt.Errorf("read signing key after persistence: %w", err)
	}
	if resolved == "" {
		return "", "", fmt.Errorf("signing key not found after persistence")
	}
	if resolved == generated {
		return resolved, SigningKeySourceGenerated, nil
	}
	return resolved, SigningKeySourceSettings, nil
}

func readSigningKeySetting(ctx context.Context, db *sql.DB) (string, error) {
	const query = `SELECT value FROM settings WHERE key = ?`

	var value string
	if err := db.QueryRowContext(ctx, query, signingKeySettingKey).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func insertSigningKeyIfMissing(ctx context.Context, db *sql.DB, key string, updatedAt int64) error {
	const statement = `INSERT INTO settings(key, value, category, updated_at) VALUES(?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, category = excluded.category, updated_at = excluded.updated_at
		WHERE TRIM(settings.value) = ''`
	_, err := db.ExecContext(ctx, statement, signingKeySettingKey, key, signingKeyCategory, updatedAt)
	return err
}

func generateSigningKey(reader io.Reader) (string, error) {
	buf := make([]byte, signingKeyRandomBytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
