package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/academic-records/internal/cache"
	"github.com/stemsi/academic-records/internal/config"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

// tokenBytes yields 40 hex characters.
const tokenBytes = 20

// TokenCache is a disposable token → account id lookup in front of the
// auth_tokens table. Get reports cache.ErrRevoked for a logged-out token and
// Set must not overwrite a revocation.
type TokenCache interface {
	Get(ctx context.Context, tokenKey string) (accountID int, ok bool, err error)
	Set(ctx context.Context, tokenKey string, accountID int) error
	Revoke(ctx context.Context, tokenKey string) error
}

// Session is an authenticated principal together with its token.
type Session struct {
	Principal *model.Principal
	Token     *model.Token
}

// AuthService handles registration, login, logout and token authentication.
type AuthService struct {
	cfg      *config.Config
	store    repository.Store
	resolver *RoleResolver
	cache    TokenCache
	log      zerolog.Logger
	newKey   func() (string, error)
}

// NewAuthService creates a new AuthService. tokenCache may be nil.
func NewAuthService(cfg *config.Config, store repository.Store, resolver *RoleResolver, tokenCache TokenCache, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		cache:    tokenCache,
		log:      log.With().Str("component", "auth_service").Logger(),
		newKey:   GenerateTokenKey,
	}
}

// GenerateTokenKey returns a fresh random token key.
func GenerateTokenKey() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// ─── Registration ───────────────────────────────────────────────────

// RegisterStudent creates an account, its student profile and a token as
// one unit.
func (s *AuthService) RegisterStudent(ctx context.Context, acct model.AccountRequest, p model.StudentProfileFields) (*Session, error) {
	fields, err := s.checkAccount(ctx, acct)
	if err != nil {
		return nil, err
	}
	dob, parseErr := model.ParseDate(p.DateOfBirth)
	if parseErr != nil {
		fields["date_of_birth"] = "Date has wrong format. Use YYYY-MM-DD."
	}
	taken, err := s.store.Students().ExistsByStudentID(ctx, p.StudentID)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if taken {
		fields[repository.FieldStudentID] = duplicateMessages[repository.FieldStudentID]
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	student := &model.Student{
		StudentID:   p.StudentID,
		PhoneNumber: p.PhoneNumber,
		DateOfBirth: dob,
		Address:     p.Address,
	}
	return s.register(ctx, acct, func(tx repository.Store, acc *model.Account) (*model.Principal, error) {
		student.AccountID = acc.ID
		if err := tx.Students().Create(ctx, student); err != nil {
			return nil, err
		}
		student.User = acc
		return model.StudentPrincipal(acc, student), nil
	})
}

// RegisterTeacher creates an account, its teacher profile and a token as
// one unit.
func (s *AuthService) RegisterTeacher(ctx context.Context, acct model.AccountRequest, p model.TeacherProfileFields) (*Session, error) {
	fields, err := s.checkAccount(ctx, acct)
	if err != nil {
		return nil, err
	}
	taken, err := s.store.Teachers().ExistsByEmployeeID(ctx, p.EmployeeID)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if taken {
		fields[repository.FieldEmployeeID] = duplicateMessages[repository.FieldEmployeeID]
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	teacher := &model.Teacher{
		EmployeeID:            p.EmployeeID,
		PhoneNumber:           p.PhoneNumber,
		SubjectSpecialization: p.SubjectSpecialization,
	}
	return s.register(ctx, acct, func(tx repository.Store, acc *model.Account) (*model.Principal, error) {
		teacher.AccountID = acc.ID
		if err := tx.Teachers().Create(ctx, teacher); err != nil {
			return nil, err
		}
		teacher.User = acc
		return model.TeacherPrincipal(acc, teacher), nil
	})
}

// RegisterAdmin creates a bare account with a token. The account carries no
// staff or superuser flag.
func (s *AuthService) RegisterAdmin(ctx context.Context, acct model.AccountRequest) (*Session, error) {
	fields, err := s.checkAccount(ctx, acct)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return s.register(ctx, acct, func(_ repository.Store, acc *model.Account) (*model.Principal, error) {
		return model.AdminPrincipal(acc), nil
	})
}

// CreateStaff creates an elevated account without a profile or token. Only
// the create-admin command calls it.
func (s *AuthService) CreateStaff(ctx context.Context, acct model.AccountRequest, superuser bool) (*model.Account, error) {
	fields, err := s.checkAccount(ctx, acct)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := s.HashPassword(acct.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc := &model.Account{
		Username:     acct.Username,
		Email:        acct.Email,
		FirstName:    acct.FirstName,
		LastName:     acct.LastName,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  superuser,
	}
	if err := s.store.Accounts().Create(ctx, acc); err != nil {
		return nil, storageErr(err, nil)
	}

	s.log.Info().Int("account_id", acc.ID).Bool("superuser", superuser).Msg("Staff account created")
	return acc, nil
}

// checkAccount collects every account-level problem. It is a fast reject
// only; the unique constraints decide at insert time.
func (s *AuthService) checkAccount(ctx context.Context, acct model.AccountRequest) (map[string]string, error) {
	fields := map[string]string{}
	if acct.Password != acct.PasswordConfirm {
		fields["password_confirm"] = "Passwords don't match."
	}

	taken, err := s.store.Accounts().ExistsByUsername(ctx, acct.Username)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if taken {
		fields[repository.FieldUsername] = duplicateMessages[repository.FieldUsername]
	}

	taken, err = s.store.Accounts().ExistsByEmail(ctx, acct.Email)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if taken {
		fields[repository.FieldEmail] = duplicateMessages[repository.FieldEmail]
	}
	return fields, nil
}

type profileFunc func(tx repository.Store, acc *model.Account) (*model.Principal, error)

func (s *AuthService) register(ctx context.Context, acct model.AccountRequest, createProfile profileFunc) (*Session, error) {
	hash, err := s.HashPassword(acct.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	key, err := s.newKey()
	if err != nil {
		return nil, err
	}

	acc := &model.Account{
		Username:     acct.Username,
		Email:        acct.Email,
		FirstName:    acct.FirstName,
		LastName:     acct.LastName,
		PasswordHash: hash,
		IsActive:     true,
	}

	var session *Session
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Accounts().Create(ctx, acc); err != nil {
			return err
		}
		principal, err := createProfile(tx, acc)
		if err != nil {
			return err
		}
		token, err := tx.Tokens().GetOrCreate(ctx, acc.ID, key)
		if err != nil {
			return err
		}
		principal.TokenKey = token.Key
		session = &Session{Principal: principal, Token: token}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("username", acct.Username).Msg("Registration rolled back")
		return nil, storageErr(err, nil)
	}

	s.log.Info().
		Int("account_id", acc.ID).
		Str("role", string(session.Principal.Role)).
		Msg("Account registered")
	return session, nil
}

// ─── Login / logout ─────────────────────────────────────────────────

// Login accepts a username or an email as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	acc, err := s.verify(ctx, s.store.Accounts().GetByUsername, identifier, password)
	if errors.Is(err, ErrInvalidCredentials) {
		acc, err = s.verify(ctx, s.store.Accounts().GetByEmail, identifier, password)
	}
	if err != nil {
		return nil, err
	}
	if !acc.IsActive {
		return nil, ErrAccountDisabled
	}

	key, err := s.newKey()
	if err != nil {
		return nil, err
	}
	token, err := s.store.Tokens().GetOrCreate(ctx, acc.ID, key)
	if err != nil {
		return nil, storageErr(err, nil)
	}

	principal, err := s.resolver.Resolve(ctx, acc)
	if err != nil {
		return nil, err
	}
	principal.TokenKey = token.Key

	s.log.Debug().Int("account_id", acc.ID).Str("role", string(principal.Role)).Msg("Login")
	return &Session{Principal: principal, Token: token}, nil
}

type accountLookup func(ctx context.Context, v string) (*model.Account, error)

func (s *AuthService) verify(ctx context.Context, lookup accountLookup, identifier, password string) (*model.Account, error) {
	acc, err := lookup(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if err := s.CheckPassword(acc.PasswordHash, password); err != nil {
		return nil, err
	}
	return acc, nil
}

// Logout revokes the first token found in: the Token header, the request
// body, the already-authenticated principal.
func (s *AuthService) Logout(ctx context.Context, headerKey, bodyKey string, principal *model.Principal) error {
	key := headerKey
	if key == "" {
		key = bodyKey
	}
	if key == "" && principal != nil {
		key = principal.TokenKey
	}
	if key == "" {
		return ErrTokenRequired
	}

	if err := s.store.Tokens().Delete(ctx, key); err != nil {
		return storageErr(err, ErrTokenUnknown)
	}
	if s.cache != nil {
		if err := s.cache.Revoke(ctx, key); err != nil {
			s.log.Error().Err(err).Msg("Failed to mark token revoked")
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}
	return nil
}

// ─── Token authentication ───────────────────────────────────────────

// Authenticate resolves a token key into a principal.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*model.Principal, error) {
	if key == "" {
		return nil, ErrTokenRequired
	}

	accountID, cached, err := s.cachedAccount(ctx, key)
	if err != nil {
		return nil, err
	}
	if !cached {
		token, err := s.store.Tokens().GetByKey(ctx, key)
		if err != nil {
			return nil, storageErr(err, ErrTokenInvalid)
		}
		accountID = token.AccountID
		s.cacheAccount(ctx, key, accountID)
	}

	acc, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, storageErr(err, ErrTokenInvalid)
	}
	if !acc.IsActive {
		return nil, ErrAccountDisabled
	}

	principal, err := s.resolver.Resolve(ctx, acc)
	if err != nil {
		return nil, err
	}
	principal.TokenKey = key
	return principal, nil
}

func (s *AuthService) cachedAccount(ctx context.Context, key string) (int, bool, error) {
	if s.cache == nil {
		return 0, false, nil
	}
	id, ok, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrRevoked) {
		return 0, false, ErrTokenInvalid
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Token cache read failed, falling back to database")
		return 0, false, nil
	}
	return id, ok, nil
}

func (s *AuthService) cacheAccount(ctx context.Context, key string, accountID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, accountID); err != nil {
		s.log.Warn().Err(err).Msg("Token cache write failed")
	}
}
