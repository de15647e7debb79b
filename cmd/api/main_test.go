package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/internal/domain"
	"github.com/jhoicas/stockpilot/pkg/jwt"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	out, err := runCLI(t, "token", "--company", "c1", "--user", "u1", "--role", jwt.RoleBodeguero)
	require.NoError(t, err)

	id, err := jwt.Parse("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, jwt.Identity{UserID: "u1", CompanyID: "c1", Role: jwt.RoleBodeguero}, id)
}

func TestTokenCommand_RolInvalido(t *testing.T) {
	_, err := runCLI(t, "token", "--company", "c1", "--user", "u2", "--role", "root")
	assert.ErrorContains(t, err, "--role")
}

func TestAlertsCommand_Validaciones(t *testing.T) {
	_, err := runCLI(t, "alerts", "--company", "")
	assert.ErrorContains(t, err, "--company")

	_, err = runCLI(t, "alerts", "--company", "c1", "--as-of", "ayer", "--format", "json")
	assert.ErrorContains(t, err, "RFC3339")

	_, err = runCLI(t, "alerts", "--company", "c1", "--as-of", "2026-04-01T00:00:00Z", "--format", "xml")
	assert.ErrorContains(t, err, "--format")
}

func TestAlertsCommand_EmpresaInexistente(t *testing.T) {
	_, err := runCLI(t, "alerts", "--company", "no-existe", "--as-of", "2026-04-01T00:00:00Z", "--format", "json")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMigrateCommand_RequierePostgres(t *testing.T) {
	_, err := runCLI(t, "migrate", "status")
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}

func TestCommands_FlagsPorEjecucion(t *testing.T) {
	_, err := runCLI(t, "token", "--company", "c1", "--role", jwt.RoleVendedor)
	require.NoError(t, err)

	_, err = runCLI(t, "alerts", "--company", "c1", "--as-of", "ayer")
	assert.ErrorContains(t, err, "RFC3339")

	_, err = runCLI(t, "token", "--company", "c1", "--role", "root")
	assert.ErrorContains(t, err, "--role")

	_, err = runCLI(t, "alerts", "--company", "")
	assert.ErrorContains(t, err, "--company")
}
