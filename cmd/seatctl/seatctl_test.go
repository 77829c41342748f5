package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/identity"
)

func TestTokenIssue(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "issue", "--sub", "owner-1", "--secret", "s3cret", "--ttl", "5m"})
	require.NoError(t, root.Execute())

	var tok identity.AccessToken
	require.NoError(t, json.Unmarshal(out.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
}

func TestTokenIssueDefaultsToConfiguredTTL(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "5")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "issue", "--sub", "owner-1", "--secret", "s3cret"})
	require.NoError(t, root.Execute())

	var tok identity.AccessToken
	require.NoError(t, json.Unmarshal(out.Bytes(), &tok))
	require.WithinDuration(t, time.Now().Add(5*time.Minute), tok.Exp, time.Minute)
}

func TestTokenIssueRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token", "issue", "--sub", "owner-1"})
	require.ErrorContains(t, root.Execute(), "signing secret")
}

func TestTokenIssueRequiresSubject(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "issue", "--secret", "s3cret"})
	require.Error(t, root.Execute())
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"token", "issue"},
		{"events", "watch"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}
}
