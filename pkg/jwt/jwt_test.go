package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := Generate("secreto", "u1", "ana@hc.org", "vendedor", "medical-farma", 5)
	require.NoError(t, err)

	id, email, role, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.Equal(t, "ana@hc.org", email)
	assert.Equal(t, "vendedor", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secreto", "u1", "a@b.c", "cliente", "x", 5)
	require.NoError(t, err)
	_, _, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secreto", "u1", "a@b.c", "cliente", "x", -1)
	require.NoError(t, err)
	_, _, _, err = Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "a@b.c", "cliente", "x", 5)
	assert.Error(t, err)
	_, _, _, err = Parse("", "x.y.z")
	assert.Error(t, err)
}
