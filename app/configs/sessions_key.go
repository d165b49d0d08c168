package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

func decodeKey(name, value string) ([]byte, error) {
	key, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from Base64: %w", name, err)
	}
	return key, nil
}

// LoadSessionKeys decodes APP_AUTH_KEY/APP_ENC_KEY and the optional CSRF_KEY.
func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}

	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey)
	if err != nil {
		return nil, err
	}

	keys := &SessionKeys{AuthKey: authKey}

	if env.AppEncKey != "" {
		encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey)
		if err != nil {
			return nil, err
		}
		if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
			return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
		}
		keys.EncKey = encKey
	}

	if env.CSRFKey != "" {
		csrfKey, err := decodeKey("CSRF_KEY", env.CSRFKey)
		if err != nil {
			return nil, err
		}
		if len(csrfKey) != 32 {
			return nil, fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(csrfKey))
		}
		keys.CSRFKey = csrfKey
	}

	return keys, nil
}

func (k *SessionKeys) Pairs() [][]byte {
	if len(k.EncKey) == 0 {
		return [][]byte{k.AuthKey}
	}
	return [][]byte{k.AuthKey, k.EncKey}
}

// GenerateSessionKeys writes fresh env lines to out and, when path is set, to that file as well.
func GenerateSessionKeys(out io.Writer, path string) error {
	authKey := securecookie.GenerateRandomKey(64)
	encKey := securecookie.GenerateRandomKey(32)
	csrfKey := securecookie.GenerateRandomKey(32)
	if authKey == nil || encKey == nil || csrfKey == nil {
		return fmt.Errorf("could not generate random keys")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nCSRF_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
		base64.URLEncoding.EncodeToString(csrfKey),
	)

	if _, err := io.WriteString(out, lines); err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", path, err)
	}
	return nil
}
