package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

func TestChangePassword_Validation(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	u := seedUser(env, "bob@x.com", "abcdef", domain.RoleEmployee)

	err := env.svc.ChangePassword(context.Background(), u, "", "newpass")
	requireErrCode(t, err, "missing_field")

	err = env.svc.ChangePassword(context.Background(), u, "abcdef", "")
	requireErrCode(t, err, "missing_field")

	err = env.svc.ChangePassword(context.Background(), u, "abcdef", "xy")
	requireErrCode(t, err, "invalid_field")
}

func TestChangePassword_WrongOld_SilentNoop(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	u := seedUser(env, "bob@x.com", "abcdef", domain.RoleEmployee)

	err := env.svc.ChangePassword(context.Background(), u, "not-it", "brandnew")
	require.NoError(t, err)

	_, err = env.svc.VerifyCredentials(context.Background(), "bob@x.com", "abcdef")
	require.NoError(t, err, "old password must still work")

	_, err = env.svc.VerifyCredentials(context.Background(), "bob@x.com", "brandnew")
	requireErrCode(t, err, "invalid_credentials")

	e := env.lastAudit(t, "auth.password_change")
	requireAuditField(t, e, "result", "noop")
	requireAuditField(t, e, "reason", "old_password_mismatch")
}

func TestChangePassword_Success(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	u := seedUser(env, "bob@x.com", "abcdef", domain.RoleEmployee)

	require.NoError(t, env.svc.ChangePassword(context.Background(), u, "abcdef", "brandnew"))

	_, err := env.svc.VerifyCredentials(context.Background(), "bob@x.com", "abcdef")
	requireErrCode(t, err, "invalid_credentials")

	_, err = env.svc.VerifyCredentials(context.Background(), "bob@x.com", "brandnew")
	require.NoError(t, err)

	e := env.lastAudit(t, "auth.password_change")
	requireAuditField(t, e, "result", "success")
}

func TestChangePassword_CorruptStoredHash_Noop(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	u := env.users.put(domain.User{Email: "bob@x.com", PasswordHash: "garbage", Role: domain.RoleEmployee})

	require.NoError(t, env.svc.ChangePassword(context.Background(), u, "abcdef", "brandnew"))

	stored, _, _ := env.users.FindByEmail(context.Background(), "bob@x.com")
	assert.Equal(t, "garbage", stored.PasswordHash)
}

func TestChangePassword_StoreError_Internal(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	u := seedUser(env, "bob@x.com", "abcdef", domain.RoleEmployee)
	env.users.updatePwdErr = errors.New("db down")

	err := env.svc.ChangePassword(context.Background(), u, "abcdef", "brandnew")
	requireErrCode(t, err, "store_failed")
}
