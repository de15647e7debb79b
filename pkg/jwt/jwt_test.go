package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	id := jwt.Identity{UserID: "u-1", CompanyID: "c-1", Role: jwt.RoleBodeguero}

	token, err := jwt.Generate("secret", id, "stockpilot", time.Hour)
	require.NoError(t, err)

	got, err := jwt.Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secret", jwt.Identity{CompanyID: "c-1"}, "stockpilot", time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secret", jwt.Identity{CompanyID: "c-1"}, "stockpilot", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse("secret", token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := jwt.Generate("", jwt.Identity{CompanyID: "c-1"}, "x", time.Hour)
	assert.Error(t, err)
}
