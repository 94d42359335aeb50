package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadTokenRoundTrip(t *testing.T) {
	tm := NewDownloadTokenManager("segredo", time.Hour)

	token, expiresAt, err := tm.GenerateToken("tk-1", "certidao.pdf")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tk-1", claims.TicketID)
	assert.Equal(t, "certidao.pdf", claims.Arquivo)
}

func TestDownloadTokenExpires(t *testing.T) {
	tm := NewDownloadTokenManager("segredo", time.Millisecond)

	token, _, err := tm.GenerateToken("tk-1", "certidao.pdf")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestDownloadTokenWrongSecretRejected(t *testing.T) {
	signer := NewDownloadTokenManager("segredo", time.Hour)
	verifier := NewDownloadTokenManager("outro-segredo", time.Hour)

	token, _, err := signer.GenerateToken("tk-1", "certidao.pdf")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestDownloadTokenGarbageRejected(t *testing.T) {
	tm := NewDownloadTokenManager("segredo", time.Hour)

	_, err := tm.ParseToken("nao.e.um.jwt")
	require.Error(t, err)
}
