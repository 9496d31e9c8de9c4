package chain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"github.com/khanghh/kaudit/params"
	"golang.org/x/crypto/hkdf"
)

// Signer produces HMAC-SHA256 signatures over event hashes.
type Signer struct {
	key []byte
}

func (s *Signer) Sign(eventHash string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(eventHash))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(eventHash, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(eventHash))
	return hmac.Equal(mac.Sum(nil), expected)
}

// NewSigner derives the signing key from masterKey with HKDF-SHA256.
func NewSigner(masterKey string) (*Signer, error) {
	if masterKey == "" {
		return nil, errors.New("master key is empty")
	}
	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, []byte(masterKey), nil, []byte(params.SigningKeyInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}
