package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-records/internal/cache"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
	"github.com/stemsi/academic-records/internal/repository/memory"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestGenerateTokenKey(t *testing.T) {
	a, err := GenerateTokenKey()
	require.NoError(t, err)
	b, err := GenerateTokenKey()
	require.NoError(t, err)

	assert.Regexp(t, hexKey, a)
	assert.NotEqual(t, a, b)
}

func TestRegisterStudentThenLoginByUsernameAndEmail(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)
	ctx := context.Background()

	reg, err := auth.RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)
	assert.Regexp(t, hexKey, reg.Token.Key)
	assert.Equal(t, model.RoleStudent, reg.Principal.Role)
	require.NotNil(t, reg.Principal.ProfileID())
	profileID := *reg.Principal.ProfileID()

	byName, err := auth.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	byEmail, err := auth.Login(ctx, "alice@x.com", testPassword)
	require.NoError(t, err)

	assert.Equal(t, profileID, *byName.Principal.ProfileID())
	assert.Equal(t, profileID, *byEmail.Principal.ProfileID())
	assert.Equal(t, reg.Token.Key, byName.Token.Key, "token is reused")
	assert.Equal(t, "S001", byEmail.Principal.Student.StudentID)
}

func TestRegisterTeacher(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)

	reg, err := auth.RegisterTeacher(context.Background(), accountRequest("bob"), teacherFields("E001"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, reg.Principal.Role)
	assert.Equal(t, "E001", reg.Principal.Teacher.EmployeeID)
	assert.Equal(t, "bob", reg.Principal.Teacher.User.Username)
}

func TestRegisterAdminIsBareAccount(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)
	ctx := context.Background()

	reg, err := auth.RegisterAdmin(ctx, accountRequest("root"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, reg.Principal.Role)
	assert.Nil(t, reg.Principal.ProfileID())
	assert.False(t, reg.Principal.Account.IsElevated())
}

func TestCreateStaffIsElevatedAdmin(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)
	ctx := context.Background()

	acc, err := auth.CreateStaff(ctx, accountRequest("root"), true)
	require.NoError(t, err)
	assert.True(t, acc.IsStaff)
	assert.True(t, acc.IsSuperuser)

	session, err := auth.Login(ctx, "root", testPassword)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, session.Principal.Role)
	assert.True(t, session.Principal.Account.IsElevated())

	_, err = auth.CreateStaff(ctx, accountRequest("root"), false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
}

func TestRegisterReportsEveryProblemAtOnce(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)
	ctx := context.Background()
	_, err := auth.RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)

	req := accountRequest("alice")
	req.PasswordConfirm = "something-else"
	fields := studentFields("S001")
	fields.DateOfBirth = "12/04/2005"

	_, err = auth.RegisterStudent(ctx, req, fields)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 5)
	for _, field := range []string{"username", "email", "password_confirm", "student_id", "date_of_birth"} {
		assert.Contains(t, verr.Fields, field)
	}
}

// racyStore hides existing student ids from the pre-check, as a concurrent
// registration would.
type racyStore struct{ repository.Store }

func (s racyStore) Students() repository.StudentRepository {
	return racyStudents{s.Store.Students()}
}

type racyStudents struct{ repository.StudentRepository }

func (racyStudents) ExistsByStudentID(context.Context, string) (bool, error) { return false, nil }

func TestRegisterLeavesNoAccountWhenProfileInsertFails(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_, err := newAuthService(store, nil).RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)

	auth := newAuthService(racyStore{store}, nil)
	_, err = auth.RegisterStudent(ctx, accountRequest("late"), studentFields("S001"))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "student_id")

	exists, err := store.Accounts().ExistsByUsername(ctx, "late")
	require.NoError(t, err)
	assert.False(t, exists, "account must be rolled back with the profile")
}

func TestLoginFailures(t *testing.T) {
	store := memory.NewStore()
	auth := newAuthService(store, nil)
	ctx := context.Background()
	seedAccount(t, store, "alice")

	disabled := &model.Account{Username: "eve", Email: "eve@x.com", IsActive: false}
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	disabled.PasswordHash = hash
	require.NoError(t, store.Accounts().Create(ctx, disabled))

	_, err = auth.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@x.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "eve", testPassword)
	assert.ErrorIs(t, err, ErrAccountDisabled)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginWithoutProfileResolvesBareAdmin(t *testing.T) {
	store := memory.NewStore()
	auth := newAuthService(store, nil)
	seedAccount(t, store, "plain")

	session, err := auth.Login(context.Background(), "plain", testPassword)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, session.Principal.Role)
	assert.Nil(t, session.Principal.ProfileID())
}

func TestLogoutTokenSources(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		logout func(auth *AuthService, key string) error
	}{
		{"header", func(auth *AuthService, key string) error { return auth.Logout(ctx, key, "", nil) }},
		{"body", func(auth *AuthService, key string) error { return auth.Logout(ctx, "", key, nil) }},
		{"principal", func(auth *AuthService, key string) error {
			p, err := auth.Authenticate(ctx, key)
			if err != nil {
				return err
			}
			return auth.Logout(ctx, "", "", p)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := newAuthService(memory.NewStore(), nil)
			reg, err := auth.RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
			require.NoError(t, err)

			require.NoError(t, tt.logout(auth, reg.Token.Key))

			_, err = auth.Authenticate(ctx, reg.Token.Key)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestLogoutErrors(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)
	ctx := context.Background()

	assert.ErrorIs(t, auth.Logout(ctx, "", "", nil), ErrTokenRequired)
	assert.ErrorIs(t, auth.Logout(ctx, "", "", &model.Principal{}), ErrTokenRequired)
	assert.ErrorIs(t, auth.Logout(ctx, "deadbeef", "", nil), ErrTokenUnknown)
	assert.ErrorIs(t, auth.Logout(ctx, "deadbeef", "", nil), ErrValidation)
}

func TestLogoutHeaderWinsOverBody(t *testing.T) {
	auth := newAuthService(memory.NewStore(), nil)
	ctx := context.Background()
	alice, err := auth.RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)
	bob, err := auth.RegisterTeacher(ctx, accountRequest("bob"), teacherFields("E001"))
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, alice.Token.Key, bob.Token.Key, nil))

	_, err = auth.Authenticate(ctx, bob.Token.Key)
	assert.NoError(t, err)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	store := memory.NewStore()
	auth := newAuthService(store, nil)
	ctx := context.Background()

	acc := &model.Account{Username: "eve", Email: "eve@x.com", IsActive: false}
	require.NoError(t, store.Accounts().Create(ctx, acc))
	tok, err := store.Tokens().GetOrCreate(ctx, acc.ID, "k")
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, tok.Key)
	assert.ErrorIs(t, err, ErrAccountDisabled)

	_, err = auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestAuthenticateUsesAndRevokesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	auth := newAuthService(memory.NewStore(), cache.NewTokenCache(rdb, time.Minute))
	ctx := context.Background()
	reg, err := auth.RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)

	p, err := auth.Authenticate(ctx, reg.Token.Key)
	require.NoError(t, err)
	assert.Equal(t, reg.Token.Key, p.TokenKey)
	assert.True(t, mr.Exists("auth:token:"+reg.Token.Key))

	require.NoError(t, auth.Logout(ctx, reg.Token.Key, "", nil))
	raw, err := mr.Get("auth:token:" + reg.Token.Key)
	require.NoError(t, err)
	assert.Equal(t, "revoked", raw)

	_, err = auth.Authenticate(ctx, reg.Token.Key)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// logoutOnLookup logs the token out right after the token row is read, as a
// concurrent logout request would.
type logoutOnLookup struct {
	repository.Store
	logout func(key string)
}

func (s *logoutOnLookup) Tokens() repository.TokenRepository {
	return &logoutTokens{TokenRepository: s.Store.Tokens(), logout: s.logout}
}

type logoutTokens struct {
	repository.TokenRepository
	logout func(key string)
}

func (r *logoutTokens) GetByKey(ctx context.Context, key string) (*model.Token, error) {
	tok, err := r.TokenRepository.GetByKey(ctx, key)
	if err == nil && r.logout != nil {
		r.logout(key)
	}
	return tok, err
}

func TestLogoutDuringAuthenticateStaysRevoked(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	base := memory.NewStore()
	tokenCache := cache.NewTokenCache(rdb, time.Minute)
	ctx := context.Background()
	reg, err := newAuthService(base, tokenCache).RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)

	racing := &logoutOnLookup{Store: base}
	auth := newAuthService(racing, tokenCache)
	racing.logout = func(key string) {
		racing.logout = nil
		require.NoError(t, auth.Logout(ctx, key, "", nil))
	}

	// The in-flight request read the row before the logout and may finish.
	_, err = auth.Authenticate(ctx, reg.Token.Key)
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, reg.Token.Key)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthenticateSurvivesCacheOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	auth := newAuthService(memory.NewStore(), cache.NewTokenCache(rdb, time.Minute))
	ctx := context.Background()
	reg, err := auth.RegisterStudent(ctx, accountRequest("alice"), studentFields("S001"))
	require.NoError(t, err)

	mr.Close()

	p, err := auth.Authenticate(ctx, reg.Token.Key)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, p.Role)
}
