package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

var testAdmin = domain.User{ID: "admin-1", Email: "admin@x.com", Role: domain.RoleAdmin}

func TestAddAuthorizedEmail_Success(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)

	got, err := env.svc.AddAuthorizedEmail(context.Background(), testAdmin, "new@x.com", "EMPLOYEE")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, domain.RoleEmployee, got.Role)

	require.Len(t, env.pub.whitelist, 1)
	assert.Equal(t, WhitelistCreated, env.pub.whitelist[0].Action)
	assert.Equal(t, "admin-1", env.pub.whitelist[0].ActorID)

	e := env.lastAudit(t, "admin.whitelist_add")
	requireAuditField(t, e, "result", "success")
	requireAuditField(t, e, "actor_id", "admin-1")
}

func TestAddAuthorizedEmail_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		email, role, code string
	}{
		{"", "ADMIN", "missing_field"},
		{"new@x.com", "", "missing_field"},
		{"not-an-email", "ADMIN", "invalid_email"},
		{"new@x.com", "pourztegr", "invalid_role"},
		{"new@x.com", "VISITOR", "invalid_role"},
	}

	for _, c := range cases {
		env := newSvcForTest(t)
		_, err := env.svc.AddAuthorizedEmail(context.Background(), testAdmin, c.email, c.role)
		requireErrCode(t, err, c.code)
		assert.Empty(t, env.emails.byEmail, "no mutation on invalid input")
		assert.Empty(t, env.pub.whitelist)
	}
}

func TestAddAuthorizedEmail_Duplicate_Conflict(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	env.emails.allow("dup@x.com", domain.RoleAdmin)

	_, err := env.svc.AddAuthorizedEmail(context.Background(), testAdmin, "dup@x.com", "EMPLOYEE")
	requireErrCode(t, err, "authorized_email_exists")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, domain.RoleAdmin, env.emails.byEmail["dup@x.com"].Role)
}

func TestUpdateAuthorizedRole(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	env.emails.allow("bob@x.com", domain.RoleEmployee)
	// an existing account keeps its role
	u := seedUser(env, "bob@x.com", "abcdef", domain.RoleEmployee)

	require.NoError(t, env.svc.UpdateAuthorizedRole(context.Background(), testAdmin, "bob@x.com", "ADMIN"))
	assert.Equal(t, domain.RoleAdmin, env.emails.byEmail["bob@x.com"].Role)

	stored, _, _ := env.users.FindByID(context.Background(), u.ID)
	assert.Equal(t, domain.RoleEmployee, stored.Role)

	require.Len(t, env.pub.whitelist, 1)
	assert.Equal(t, WhitelistUpdated, env.pub.whitelist[0].Action)
}

func TestUpdateAuthorizedRole_Errors(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	env.emails.allow("bob@x.com", domain.RoleEmployee)

	err := env.svc.UpdateAuthorizedRole(context.Background(), testAdmin, "bob@x.com", "pourztegr")
	requireErrCode(t, err, "invalid_role")
	assert.Equal(t, domain.RoleEmployee, env.emails.byEmail["bob@x.com"].Role)

	err = env.svc.UpdateAuthorizedRole(context.Background(), testAdmin, "ghost@x.com", "ADMIN")
	requireErrCode(t, err, "authorized_email_not_found")

	env.emails.updateErr = errors.New("db down")
	err = env.svc.UpdateAuthorizedRole(context.Background(), testAdmin, "bob@x.com", "ADMIN")
	requireErrCode(t, err, "store_failed")
}

func TestRemoveAuthorizedEmail_Idempotent(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	env.emails.allow("bob@x.com", domain.RoleEmployee)
	u := seedUser(env, "bob@x.com", "abcdef", domain.RoleEmployee)

	require.NoError(t, env.svc.RemoveAuthorizedEmail(context.Background(), testAdmin, "bob@x.com"))
	require.NoError(t, env.svc.RemoveAuthorizedEmail(context.Background(), testAdmin, "bob@x.com"))
	assert.Empty(t, env.emails.byEmail)

	_, found, _ := env.users.FindByID(context.Background(), u.ID)
	assert.True(t, found, "user rows are never touched")
}

func TestListAuthorizedEmails(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	env.emails.allow("a@x.com", domain.RoleEmployee)
	env.emails.allow("b@x.com", domain.RoleAdmin)

	list, err := env.svc.ListAuthorizedEmails(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	env.emails.listErr = errors.New("db down")
	_, err = env.svc.ListAuthorizedEmails(context.Background())
	requireErrCode(t, err, "store_failed")
}

func TestWhitelist_PublishFailure_DoesNotFail(t *testing.T) {
	t.Parallel()

	env := newSvcForTest(t)
	env.pub.whitelistErr = errors.New("broker down")

	_, err := env.svc.AddAuthorizedEmail(context.Background(), testAdmin, "new@x.com", "ADMIN")
	require.NoError(t, err)
}
