package command

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, configArgs []string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(configArgs)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestToken_SignsWithConfiguredSecret(t *testing.T) {
	configArgs := []string{"token", "--user-id", "7", "--role", "admin", "-s", "cli-secret"}

	out, err := runRoot(t, configArgs, configArgs...)
	require.NoError(t, err)

	claims, err := auth.ParseToken(out, []byte("cli-secret"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestToken_DefaultsToClientRole(t *testing.T) {
	configArgs := []string{"token", "--user-id", "3", "-s", "k"}

	out, err := runRoot(t, configArgs, configArgs...)
	require.NoError(t, err)

	claims, err := auth.ParseToken(out, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "client", claims.Role)
}

func TestToken_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing user", []string{"token"}},
		{"unknown role", []string{"token", "--user-id", "1", "--role", "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRoot(t, tt.args, tt.args...)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRoot_ListsCommands(t *testing.T) {
	root := NewRootCommand(nil)
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "token"}, names)
}
