package service

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueProducesHexTokenWithDigest(t *testing.T) {
	issuer := NewTokenIssuer()

	token, err := issuer.Issue(TokenKindPasswordReset)
	require.NoError(t, err)
	require.Len(t, token.Raw, 128)
	_, err = hex.DecodeString(token.Raw)
	require.NoError(t, err)

	require.Equal(t, HashToken(token.Raw), token.Hash)
	require.NotEqual(t, token.Raw, token.Hash)
	require.Len(t, token.Hash, 64)
}

func TestIssueAppliesKindTTL(t *testing.T) {
	issuer := NewTokenIssuer()

	reset, err := issuer.Issue(TokenKindPasswordReset)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), reset.ExpiresAt, 5*time.Second)

	activation, err := issuer.Issue(TokenKindActivation)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), activation.ExpiresAt, 5*time.Second)
}

func TestIssueRejectsUnknownKind(t *testing.T) {
	issuer := NewTokenIssuer()

	_, err := issuer.Issue(TokenKind("session"))
	require.Error(t, err)
}

func TestIssueNeverRepeats(t *testing.T) {
	issuer := NewTokenIssuer()

	first, err := issuer.Issue(TokenKindActivation)
	require.NoError(t, err)
	second, err := issuer.Issue(TokenKindActivation)
	require.NoError(t, err)
	require.NotEqual(t, first.Raw, second.Raw)
	require.NotEqual(t, first.Hash, second.Hash)
}
