package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectfair/backend/internal/auth"
	"github.com/projectfair/backend/internal/config"
	"github.com/projectfair/backend/internal/domain"
	"github.com/projectfair/backend/internal/events"
	apperrors "github.com/projectfair/backend/pkg/util/errorutil"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:               "service-test-secret-service-test",
	AccessTokenTTLMinutes:   60,
	PasswordResetTTLMinutes: 30,
	BcryptCost:              bcrypt.MinCost,
}

type authFixture struct {
	svc         *AuthService
	admins      *fakeAdminRepo
	students    *fakeStudentRepo
	resets      *fakeResetRepo
	revocations *fakeRevocations
	dispatcher  *recordingDispatcher
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		admins: newFakeAdminRepo(domain.Admin{
			ID: 1, FirstName: "Ada", LastName: "Root", Email: "root@example.com",
			PasswordHash: mustHash(t, "rootpass1"), Role: domain.AdminRoleRoot,
		}),
		students: newFakeStudentRepo(
			domain.Student{ID: 10, FirstName: "Sam", LastName: "Student", Email: "sam@uni.example.edu", PasswordHash: mustHash(t, "studpass1")},
			domain.Student{ID: 11, FirstName: "Pat", LastName: "Pending", Email: "pat@uni.example.edu", PasswordHash: mustHash(t, "studpass1"), IsPending: true},
		),
		resets:      newFakeResetRepo(),
		revocations: &fakeRevocations{},
		dispatcher:  &recordingDispatcher{},
	}
	f.svc = NewAuthService(testAuthConfig, AuthDependencies{
		AdminRepo:         f.admins,
		StudentRepo:       f.students,
		PasswordResetRepo: f.resets,
		TokenManager:      auth.NewTokenManager(testAuthConfig.JWTSecret, testAuthConfig.AccessTokenTTL()),
		Revocations:       f.revocations,
		Dispatcher:        f.dispatcher,
	})
	return f
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginAdmin(t *testing.T) {
	f := newAuthFixture(t)

	admin, token, exp, err := f.svc.LoginAdmin(context.Background(), " Root@Example.com ", "rootpass1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.ID)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.svc.TokenManager().Decode(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, int(domain.AdminRoleRoot), claims.RoleTier)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)

	_, _, _, err := f.svc.LoginAdmin(context.Background(), "root@example.com", "wrong")
	assertStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, msgBadCredentials, apperrors.ToDomainError(err).Message)

	_, _, _, err = f.svc.LoginAdmin(context.Background(), "nobody@example.com", "rootpass1")
	assertStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, msgBadCredentials, apperrors.ToDomainError(err).Message)

	_, _, _, err = f.svc.LoginStudent(context.Background(), "sam@uni.example.edu", "wrong")
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestLoginComparesHashForUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	var compared []string
	f.svc.compare = func(hashed, plain string) error {
		compared = append(compared, hashed)
		return auth.ComparePassword(hashed, plain)
	}

	_, _, _, err := f.svc.LoginAdmin(context.Background(), "nobody@example.com", "rootpass1")
	assertStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, msgBadCredentials, apperrors.ToDomainError(err).Message)

	_, _, _, err = f.svc.LoginStudent(context.Background(), "ghost@uni.example.edu", "studpass1")
	assertStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, msgBadCredentials, apperrors.ToDomainError(err).Message)

	require.Len(t, compared, 2)
	assert.NotEmpty(t, compared[0])
	assert.Equal(t, compared[0], compared[1])
	cost, err := bcrypt.Cost([]byte(compared[0]))
	require.NoError(t, err)
	assert.Equal(t, testAuthConfig.BcryptCost, cost)
}

func TestLoginStudent(t *testing.T) {
	f := newAuthFixture(t)

	student, token, _, err := f.svc.LoginStudent(context.Background(), "sam@uni.example.edu", "studpass1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), student.ID)

	claims, err := f.svc.TokenManager().Decode(token)
	require.NoError(t, err)
	assert.False(t, claims.Admin)
	assert.Equal(t, int64(10), claims.SubjectID)

	_, _, _, err = f.svc.LoginStudent(context.Background(), "pat@uni.example.edu", "studpass1")
	assertStatus(t, err, http.StatusForbidden)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	exp := time.Now().Add(time.Hour)

	require.NoError(t, f.svc.Logout(context.Background(), &auth.Principal{Token: "abc", ExpiresAt: exp}))
	revoked, err := f.revocations.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	assertStatus(t, f.svc.Logout(context.Background(), nil), http.StatusUnauthorized)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	f := newAuthFixture(t)

	created, err := f.svc.EnsureDefaultAdmin(context.Background(), "root@example.com", "whatever1")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.svc.EnsureDefaultAdmin(context.Background(), "Boot@Example.com", "bootpass1")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := f.admins.GetByEmail(context.Background(), "boot@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.AdminRoleRoot, admin.Role)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, "bootpass1"))

	created, err = f.svc.EnsureDefaultAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token, err := f.svc.RequestPasswordReset(ctx, domain.SubjectTypeStudent, "sam@uni.example.edu")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, int64(10), token.SubjectID)

	published := f.dispatcher.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventPasswordResetRequested, published[0].Type)
	payload, ok := published[0].Payload.(events.PasswordResetRequestedPayload)
	require.True(t, ok)
	assert.Equal(t, token.Token, payload.Token)

	err = f.svc.ConfirmPasswordReset(ctx, domain.SubjectTypeAdmin, token.Token, "newpass123")
	assertStatus(t, err, http.StatusBadRequest)

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, domain.SubjectTypeStudent, token.Token, "newpass123"))
	_, _, _, err = f.svc.LoginStudent(ctx, "sam@uni.example.edu", "newpass123")
	require.NoError(t, err)

	err = f.svc.ConfirmPasswordReset(ctx, domain.SubjectTypeStudent, token.Token, "another123")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.svc.RequestPasswordReset(context.Background(), domain.SubjectTypeAdmin, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, token)
	assert.Empty(t, f.dispatcher.all())
}

func TestPasswordResetExpired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token, err := f.svc.RequestPasswordReset(ctx, domain.SubjectTypeAdmin, "root@example.com")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	err = f.svc.ConfirmPasswordReset(ctx, domain.SubjectTypeAdmin, token.Token, "newpass123")
	assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, msgInvalidResetToken, apperrors.ToDomainError(err).Message)
}

func TestPasswordResetRejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t)
	err := f.svc.ConfirmPasswordReset(context.Background(), domain.SubjectTypeAdmin, "whatever", "short")
	assertStatus(t, err, http.StatusBadRequest)
}
