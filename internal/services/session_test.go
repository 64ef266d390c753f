package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"

	"github.com/poketeer/pokeapi/internal/auth"
	"github.com/poketeer/pokeapi/internal/common"
	"github.com/poketeer/pokeapi/internal/dbx"
	"github.com/poketeer/pokeapi/internal/logging"
	"github.com/poketeer/pokeapi/internal/models"
	"github.com/poketeer/pokeapi/internal/repositories/pokemonabilities"
	"github.com/poketeer/pokeapi/internal/repositories/pokemons"
	"github.com/poketeer/pokeapi/internal/repositories/pokemontypes"
	"github.com/poketeer/pokeapi/internal/repositories/tokenwhitelist"
	"github.com/poketeer/pokeapi/internal/repositories/users"
)

var frozenNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeUsersRepo struct {
	byUsername map[string]*models.User
	byID       map[int]*models.User
	nextID     int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byUsername: map[string]*models.User{},
		byID:       map[int]*models.User{},
		nextID:     1,
	}
}

func (r *fakeUsersRepo) add(username, passwordHash string) *models.User {
	u := &models.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.nextID++
	r.byUsername[username] = u
	r.byID[u.ID] = u
	return u
}

func (r *fakeUsersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byUsername[user.Username]; ok {
		return nil, fmt.Errorf("%w: username already taken", common.ErrUserCreation)
	}
	return r.add(user.Username, user.PasswordHash), nil
}

func (r *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeWhitelistRepo struct {
	entries []*models.TokenWhitelist
	deleted []*models.TokenWhitelist
	nextID  int
}

func newFakeWhitelistRepo() *fakeWhitelistRepo {
	return &fakeWhitelistRepo{nextID: 1}
}

func (r *fakeWhitelistRepo) add(userID int, jti, refresh string, updatedAt time.Time) *models.TokenWhitelist {
	e := &models.TokenWhitelist{
		ID: r.nextID, UserID: userID, AccessToken: jti, RefreshToken: refresh,
		CreatedAt: updatedAt, UpdatedAt: updatedAt,
	}
	r.nextID++
	r.entries = append(r.entries, e)
	return e
}

func (r *fakeWhitelistRepo) GetByAccessToken(_ context.Context, jti string, cutoff time.Time) (*models.TokenWhitelist, error) {
	for _, e := range r.entries {
		if e.AccessToken == jti && !e.UpdatedAt.Before(cutoff) {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeWhitelistRepo) GetByRefreshToken(_ context.Context, refreshToken string, cutoff time.Time) (*models.TokenWhitelist, error) {
	for _, e := range r.entries {
		if e.RefreshToken == refreshToken && !e.UpdatedAt.Before(cutoff) {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeWhitelistRepo) Create(_ context.Context, entry *models.TokenWhitelist) (*models.TokenWhitelist, error) {
	for _, e := range r.entries {
		if e.AccessToken == entry.AccessToken {
			return nil, fmt.Errorf("%w: duplicate jti", common.ErrTokenRegistration)
		}
	}
	return r.add(entry.UserID, entry.AccessToken, entry.RefreshToken, entry.UpdatedAt), nil
}

func (r *fakeWhitelistRepo) Update(_ context.Context, entry *models.TokenWhitelist) (*models.TokenWhitelist, error) {
	for _, e := range r.entries {
		if e.ID == entry.ID {
			e.AccessToken = entry.AccessToken
			e.RefreshToken = entry.RefreshToken
			e.UpdatedAt = entry.UpdatedAt
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no row with id %d", common.ErrTokenUpdate, entry.ID)
}

func (r *fakeWhitelistRepo) DeleteExpired(_ context.Context, userID int, cutoff time.Time) (int64, error) {
	var kept []*models.TokenWhitelist
	var count int64
	for _, e := range r.entries {
		if e.UserID == userID && !e.UpdatedAt.After(cutoff) {
			r.deleted = append(r.deleted, e)
			count++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return count, nil
}

type fakeRepoManager struct {
	users     *fakeUsersRepo
	whitelist *fakeWhitelistRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) TokenWhitelist(dbx.DBTX) tokenwhitelist.Repository {
	return m.whitelist
}
func (m *fakeRepoManager) Pokemons(dbx.DBTX) pokemons.Repository         { return nil }
func (m *fakeRepoManager) PokemonTypes(dbx.DBTX) pokemontypes.Repository { return nil }
func (m *fakeRepoManager) PokemonAbilities(dbx.DBTX) pokemonabilities.Repository {
	return nil
}

// fakeHasher prefixes instead of deriving a key, keeping the tests fast.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Verify(password, hash string) bool    { return hash == "hashed:"+password }

// fakeCodec encodes the claims into the token string itself.
type fakeCodec struct {
	lastJTI string
}

func (c *fakeCodec) Issue(subject, username string, _, _ time.Time, jti string) (string, error) {
	c.lastJTI = jti
	return "access." + subject + "." + jti, nil
}

func (c *fakeCodec) Verify(token string) (*auth.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != "access" {
		return nil, fmt.Errorf("%w: malformed token", common.ErrTokenVerification)
	}
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: parts[1], ID: parts[2]},
	}, nil
}

type sessionFixture struct {
	svc       *SessionService
	users     *fakeUsersRepo
	whitelist *fakeWhitelistRepo
	codec     *fakeCodec
	mock      sqlmock.Sqlmock
	db        *sql.DB
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &sessionFixture{
		users:     newFakeUsersRepo(),
		whitelist: newFakeWhitelistRepo(),
		codec:     &fakeCodec{},
		mock:      mock,
		db:        db,
	}

	f.svc = NewSessionService(db, &fakeRepoManager{users: f.users, whitelist: f.whitelist},
		fakeHasher{}, f.codec, nopLogger{}, time.Hour, 24*time.Hour)
	f.svc.now = func() time.Time { return frozenNow }

	return f
}

// expectTx matches the transaction wrapping sweep-and-issue. The fakes run
// inside it, so no statements hit the driver.
func (f *sessionFixture) expectTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func TestLogin_Success(t *testing.T) {
	f := newSessionFixture(t)
	user := f.users.add("red", "hashed:password12")
	f.expectTx()

	pair, err := f.svc.Login(context.Background(), "red", "password12")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if pair.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", pair.TokenType)
	}
	wantAccess := "access." + strconv.Itoa(user.ID) + "." + f.codec.lastJTI
	if pair.AccessToken != wantAccess {
		t.Errorf("access token = %q, want %q", pair.AccessToken, wantAccess)
	}
	if pair.RefreshToken == "" {
		t.Error("refresh token is empty")
	}

	entry, err := f.whitelist.GetByAccessToken(context.Background(), f.codec.lastJTI, frozenNow.Add(-time.Hour))
	if err != nil {
		t.Fatalf("issued jti was not whitelisted: %v", err)
	}
	if entry.RefreshToken != pair.RefreshToken {
		t.Errorf("whitelisted refresh token %q does not match returned %q", entry.RefreshToken, pair.RefreshToken)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.Login(context.Background(), "missing", "password12")
	if !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newSessionFixture(t)
	f.users.add("red", "hashed:password12")

	_, err := f.svc.Login(context.Background(), "red", "password13")
	if !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestLogin_ErrorsDoNotRevealWhichCheckFailed(t *testing.T) {
	f := newSessionFixture(t)
	f.users.add("red", "hashed:password12")

	_, unknownErr := f.svc.Login(context.Background(), "missing", "password12")
	_, wrongErr := f.svc.Login(context.Background(), "red", "password13")

	if unknownErr == nil || wrongErr == nil {
		t.Fatal("both attempts must fail")
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLogin_SweepsExpiredEntries(t *testing.T) {
	f := newSessionFixture(t)
	user := f.users.add("red", "hashed:password12")

	stale := f.whitelist.add(user.ID, "jti-old", "refresh-old", frozenNow.Add(-25*time.Hour))
	fresh := f.whitelist.add(user.ID, "jti-fresh", "refresh-fresh", frozenNow.Add(-time.Hour))

	f.expectTx()
	if _, err := f.svc.Login(context.Background(), "red", "password12"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if len(f.whitelist.deleted) != 1 || f.whitelist.deleted[0].ID != stale.ID {
		t.Fatalf("stale entry was not reaped: %+v", f.whitelist.deleted)
	}
	if _, err := f.whitelist.GetByRefreshToken(context.Background(), fresh.RefreshToken, frozenNow.Add(-24*time.Hour)); err != nil {
		t.Fatalf("fresh entry must survive the sweep: %v", err)
	}
}

func TestRefresh_RotatesTokens(t *testing.T) {
	f := newSessionFixture(t)
	user := f.users.add("red", "hashed:password12")
	old := f.whitelist.add(user.ID, "jti-old", "refresh-old", frozenNow.Add(-time.Hour))

	f.expectTx()
	pair, err := f.svc.Refresh(context.Background(), "refresh-old")
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if pair.RefreshToken == old.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	// Rotation inserts a new row; the consumed one stays until the sweep
	// reaps it.
	if len(f.whitelist.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(f.whitelist.entries))
	}
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newSessionFixture(t)
	f.users.add("red", "hashed:password12")

	_, err := f.svc.Refresh(context.Background(), "never-issued")
	if !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestRefresh_ExpiredToken(t *testing.T) {
	f := newSessionFixture(t)
	user := f.users.add("red", "hashed:password12")
	f.whitelist.add(user.ID, "jti-old", "refresh-old", frozenNow.Add(-25*time.Hour))

	_, err := f.svc.Refresh(context.Background(), "refresh-old")
	if !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestRefresh_UserDeleted(t *testing.T) {
	f := newSessionFixture(t)
	f.whitelist.add(42, "jti-orphan", "refresh-orphan", frozenNow.Add(-time.Hour))

	_, err := f.svc.Refresh(context.Background(), "refresh-orphan")
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	f := newSessionFixture(t)

	pair, err := f.svc.Register(context.Background(), "red", "password12")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, err := f.users.GetByUsername(context.Background(), "red")
	if err != nil {
		t.Fatalf("user was not created: %v", err)
	}
	if user.PasswordHash != "hashed:password12" {
		t.Errorf("stored hash = %q", user.PasswordHash)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete token pair: %+v", pair)
	}
	if _, err := f.whitelist.GetByAccessToken(context.Background(), f.codec.lastJTI, frozenNow.Add(-time.Hour)); err != nil {
		t.Fatalf("first token pair was not whitelisted: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newSessionFixture(t)
	f.users.add("red", "hashed:other")

	_, err := f.svc.Register(context.Background(), "red", "password12")
	if !errors.Is(err, common.ErrUserCreation) {
		t.Fatalf("want ErrUserCreation, got %v", err)
	}
}

func TestResolveIdentity_Success(t *testing.T) {
	f := newSessionFixture(t)
	user := f.users.add("red", "hashed:password12")
	f.whitelist.add(user.ID, "jti-1234", "refresh-1234", frozenNow.Add(-30*time.Minute))

	got, err := f.svc.ResolveIdentity(context.Background(), "access.1.jti-1234")
	if err != nil {
		t.Fatalf("ResolveIdentity error: %v", err)
	}
	if got.ID != user.ID || got.Username != "red" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestResolveIdentity_MalformedToken(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.svc.ResolveIdentity(context.Background(), "garbage")
	if !errors.Is(err, common.ErrTokenVerification) {
		t.Fatalf("want ErrTokenVerification, got %v", err)
	}
}

func TestResolveIdentity_NotWhitelisted(t *testing.T) {
	f := newSessionFixture(t)
	f.users.add("red", "hashed:password12")

	_, err := f.svc.ResolveIdentity(context.Background(), "access.1.jti-unknown")
	if !errors.Is(err, common.ErrAuthorization) {
		t.Fatalf("want ErrAuthorization, got %v", err)
	}
}

func TestResolveIdentity_OutsideWindow(t *testing.T) {
	f := newSessionFixture(t)
	user := f.users.add("red", "hashed:password12")
	f.whitelist.add(user.ID, "jti-1234", "refresh-1234", frozenNow.Add(-2*time.Hour))

	_, err := f.svc.ResolveIdentity(context.Background(), "access.1.jti-1234")
	if !errors.Is(err, common.ErrAuthorization) {
		t.Fatalf("want ErrAuthorization, got %v", err)
	}
}

func TestResolveIdentity_UserDeleted(t *testing.T) {
	f := newSessionFixture(t)
	f.whitelist.add(42, "jti-orphan", "refresh-orphan", frozenNow.Add(-time.Minute))

	_, err := f.svc.ResolveIdentity(context.Background(), "access.42.jti-orphan")
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestResolveIdentity_MalformedSubject(t *testing.T) {
	f := newSessionFixture(t)
	f.whitelist.add(1, "jti-1234", "refresh-1234", frozenNow.Add(-time.Minute))

	_, err := f.svc.ResolveIdentity(context.Background(), "access.not-a-number.jti-1234")
	if !errors.Is(err, common.ErrTokenVerification) {
		t.Fatalf("want ErrTokenVerification, got %v", err)
	}
}
