package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for cookies that fail structural or
	// signature checks. Callers treat it as "no session".
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrExpiredToken is returned for correctly signed cookies older
	// than the configured max age.
	ErrExpiredToken = errors.New("session: token expired")
)

// Codec signs and verifies session cookie payloads. The token format is
// base64url(JSON envelope) + "." + base64url(HMAC-SHA256). The envelope
// carries the issue time so expiry survives client clock skew.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec from a signing secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

type tokenEnvelope struct {
	IssuedAt int64          `json:"iat"`
	Values   map[string]any `json:"v"`
}

// Encode signs values into a cookie-safe token.
func (c *Codec) Encode(values map[string]any, now time.Time) (string, error) {
	payload, err := json.Marshal(tokenEnvelope{IssuedAt: now.Unix(), Values: values})
	if err != nil {
		return "", fmt.Errorf("session: encode: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + c.sign(body), nil
}

// Decode verifies a token and returns its values. maxAge of zero means
// tokens never expire.
func (c *Codec) Decode(token string, maxAge time.Duration, now time.Time) (map[string]any, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok || body == "" {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(body))) {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var env tokenEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, ErrInvalidToken
	}
	if maxAge > 0 && now.Sub(time.Unix(env.IssuedAt, 0)) > maxAge {
		return nil, ErrExpiredToken
	}
	return env.Values, nil
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// encodeStored marshals session values for a server-side store.
func encodeStored(values map[string]any) ([]byte, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("session: encode values: %w", err)
	}
	return data, nil
}

// decodeStored unmarshals session values loaded from a store.
func decodeStored(data []byte) (map[string]any, error) {
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("session: decode values: %w", err)
	}
	return values, nil
}

// DefaultKeyFile is where LoadOrCreateKey persists a generated secret.
const DefaultKeyFile = ".sesskey"

// LoadOrCreateKey reads the signing secret from path, generating and
// writing a fresh one on first run. An empty path uses DefaultKeyFile.
func LoadOrCreateKey(path string) ([]byte, error) {
	if path == "" {
		path = DefaultKeyFile
	}
	if data, err := os.ReadFile(path); err == nil {
		key := strings.TrimSpace(string(data))
		if key != "" {
			return []byte(key), nil
		}
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("session: generate key: %w", err)
	}
	key := hex.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
		return nil, fmt.Errorf("session: write key file: %w", err)
	}
	return []byte(key), nil
}
