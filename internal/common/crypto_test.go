package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHash(t *testing.T) {
	a := CalculateHash("secret", []byte(`{"rule":"brute_force"}`))
	b := CalculateHash("secret", `{"rule":"brute_force"}`)
	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, CalculateHash("other", `{"rule":"brute_force"}`))
	assert.Empty(t, CalculateHash("secret"))

	assert.True(t, VerifyHash("secret", a, []byte(`{"rule":"brute_force"}`)))
	assert.False(t, VerifyHash("secret", a, []byte(`{"rule":"high_risk"}`)))
}
