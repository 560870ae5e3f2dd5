package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmpty(t *testing.T) {
	p := NewStatic()

	assert.False(t, p.SignedIn())

	_, err := p.Retrieve(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestStaticSetKeys(t *testing.T) {
	p := NewStatic()

	require.NoError(t, p.SetKeys("AKIAEXAMPLE", "secret"))
	assert.True(t, p.SignedIn())

	creds, err := p.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestStaticSetKeysEmpty(t *testing.T) {
	tests := []struct {
		name   string
		access string
		secret string
	}{
		{"both empty", "", ""},
		{"empty access key", "", "secret"},
		{"empty secret", "AKIAEXAMPLE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewStatic()
			err := p.SetKeys(tt.access, tt.secret)
			assert.ErrorIs(t, err, ErrNoCredentials)
			assert.False(t, p.SignedIn())
		})
	}
}

func TestStaticSignOut(t *testing.T) {
	p := NewStatic()
	require.NoError(t, p.SetKeys("AKIAEXAMPLE", "secret"))

	p.SignOut()

	assert.False(t, p.SignedIn())
	_, err := p.Retrieve(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}
