package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	passwords := []string{"Secret123", "p", "correct horse battery staple", "päss wörd"}
	for _, p := range passwords {
		p := p
		t.Run(p, func(t *testing.T) {
			t.Parallel()

			h, err := HashPassword(p)
			require.NoError(t, err)
			require.NotEmpty(t, h)
			assert.NotEqual(t, p, h)

			assert.True(t, CheckPassword(h, p))
			assert.False(t, CheckPassword(h, p+"x"))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("Secret123")
	require.NoError(t, err)
	h2, err := HashPassword("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("not-a-bcrypt-hash", "Secret123"))
	assert.False(t, CheckPassword("", "Secret123"))
}
