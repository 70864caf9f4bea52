package service_test

import (
	"context"
	"testing"

	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/model"
	"github.com/alexconectado/pdv-caixa/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesSessionAndCsrf(t *testing.T) {
	env := newTestEnv()

	resp, token, err := env.authS.Login(context.Background(), dto.LoginRequest{
		Username: "admin", Password: testAdminPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "admin", resp.User.Username)
	assert.Len(t, resp.CsrfToken, 64) // 32 random bytes, hex
	assert.Equal(t, 12*3600, resp.ExpiresIn)

	// The token is verifiable with the configured secret and carries the
	// user id plus the same CSRF token handed to the client.
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(env.cfg.SessionSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, env.admin.ID.String(), claims["user_id"])
	assert.Equal(t, resp.CsrfToken, claims["csrf"])
}

func TestLoginUniformError(t *testing.T) {
	env := newTestEnv()
	env.clerk.Active = false

	cases := []dto.LoginRequest{
		{Username: "ninguem", Password: "qualquer"},     // unknown user
		{Username: "admin", Password: "senha-errada"},   // wrong password
		{Username: "maria", Password: "senha-operador"}, // deactivated user
	}
	for _, req := range cases {
		_, _, err := env.authS.Login(context.Background(), req)
		// The same sentinel regardless of the failing check — no user
		// enumeration through error messages.
		assert.ErrorIs(t, err, service.ErrInvalidCredentials, "user %s", req.Username)
	}
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv()

	resp, err := env.authS.CreateUser(context.Background(), env.admin, dto.CreateUserRequest{
		Username: "joao", FullName: "João Souza", Password: "senha-segura", Role: model.RoleOperator,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleOperator, resp.Role)
	assert.True(t, resp.Active)

	// New users can log in immediately.
	_, _, err = env.authS.Login(context.Background(), dto.LoginRequest{
		Username: "joao", Password: "senha-segura",
	})
	require.NoError(t, err)

	// And the creation is audited.
	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, model.AuditCreateUser, env.audit.entries[0].Action)
	assert.Contains(t, env.audit.entries[0].Details, "joao")
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	env := newTestEnv()

	_, err := env.authS.CreateUser(context.Background(), env.admin, dto.CreateUserRequest{
		Username: "maria", FullName: "Outra Maria", Password: "123456", Role: model.RoleOperator,
	})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestDeactivateBlocksLogin(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.authS.DeactivateUser(context.Background(), env.clerk.ID))
	_, _, err := env.authS.Login(context.Background(), dto.LoginRequest{
		Username: "maria", Password: "senha-operador",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, env.authS.ReactivateUser(context.Background(), env.clerk.ID))
	_, _, err = env.authS.Login(context.Background(), dto.LoginRequest{
		Username: "maria", Password: "senha-operador",
	})
	assert.NoError(t, err)
}

func TestEnsureDefaultAdminIdempotent(t *testing.T) {
	env := newTestEnv()

	// An admin already exists; nothing is created.
	require.NoError(t, env.authS.EnsureDefaultAdmin(context.Background()))
	n, _ := env.users.Count(context.Background())
	assert.EqualValues(t, 2, n)

	// On a fresh install the bootstrap admin appears.
	fresh := newMemUserRepo()
	svc := service.NewAuthService(fresh, &memAuditRepo{}, env.cfg)
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	admin, err := fresh.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, admin.Active)
}
