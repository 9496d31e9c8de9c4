package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CalculateHash returns the hex HMAC-SHA256 of inputs under key.
func CalculateHash(key string, inputs ...interface{}) string {
	if len(inputs) == 0 {
		return ""
	}
	h := hmac.New(sha256.New, []byte(key))
	for _, val := range inputs {
		switch v := val.(type) {
		case []byte:
			h.Write(v)
		case string:
			h.Write([]byte(v))
		default:
			h.Write([]byte(fmt.Sprintf("%v", v)))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHash compares expected against the HMAC of inputs in constant time.
func VerifyHash(key, expected string, inputs ...interface{}) bool {
	return hmac.Equal([]byte(CalculateHash(key, inputs...)), []byte(expected))
}
