package utils

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	code := RandomCode(r, confirmationCodeLength)
	require.Len(t, code, confirmationCodeLength)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(letterBytes, c), "unexpected character %q", c)
	}
}
