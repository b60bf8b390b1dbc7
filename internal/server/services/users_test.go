package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/dbx"
	"github.com/dkarklins/jobfolio/internal/logging"
	"github.com/dkarklins/jobfolio/internal/server/auth"
	"github.com/dkarklins/jobfolio/internal/server/config"
	"github.com/dkarklins/jobfolio/internal/server/models"
	linksrepo "github.com/dkarklins/jobfolio/internal/server/repositories/links"
	profilesrepo "github.com/dkarklins/jobfolio/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/dkarklins/jobfolio/internal/server/repositories/refreshtokens"
	resettokensrepo "github.com/dkarklins/jobfolio/internal/server/repositories/resettokens"
	usersrepo "github.com/dkarklins/jobfolio/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	updateHashErr   error
	updateHashCalls int
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-new"
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}
func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	f.updateHashCalls++
	return f.updateHashErr
}

type fakeRefreshRepo struct {
	createErr   error
	createCalls int

	getOut *models.RefreshToken
	getErr error

	delErr   error
	delCalls int

	delByUserErr   error
	delByUserCalls int
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.createCalls++
	return f.createErr
}
func (f *fakeRefreshRepo) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.delCalls++
	return f.delErr
}
func (f *fakeRefreshRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.delByUserCalls++
	return f.delByUserErr
}

type fakeResetRepo struct {
	createErr   error
	createCalls int

	getOut *models.ResetToken
	getErr error

	markUsedErr   error
	markUsedCalls int
}

func (f *fakeResetRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.createCalls++
	return f.createErr
}
func (f *fakeResetRepo) Get(ctx context.Context, token string) (*models.ResetToken, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeResetRepo) MarkUsed(ctx context.Context, token string) error {
	f.markUsedCalls++
	return f.markUsedErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	rs *fakeResetRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) ResetTokens(db dbx.DBTX) resettokensrepo.Repository {
	return m.rs
}
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository { return nil }
func (m *fakeRepoManager) Links(db dbx.DBTX) linksrepo.Repository       { return nil }

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRefreshRepo{}, rs: &fakeResetRepo{}}
}

func newUserService(db *sql.DB, rm *fakeRepoManager) *UserService {
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		ResetTokenValidityDuration:   time.Hour,
	}
	return NewUserService(db, rm, nopLogger{}, cfg)
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := newUserService(db, rm)

	pair, err := s.Register(context.Background(), "  Kate@Example.com ", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", pair)
	}
	if pair.User.Email != "kate@example.com" {
		t.Fatalf("email not normalized: %q", pair.User.Email)
	}
	if rm.r.createCalls != 1 {
		t.Fatalf("refresh token not stored, calls=%d", rm.r.createCalls)
	}
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(db, newFakeRepoManager())

	for _, tc := range []struct{ email, password string }{
		{"", "pw"},
		{"kate@example.com", ""},
		{"   ", "pw"},
	} {
		if _, err := s.Register(context.Background(), tc.email, tc.password); !errors.Is(err, common.ErrValidation) {
			t.Fatalf("Register(%q, %q): want ErrValidation, got %v", tc.email, tc.password, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u.createErr = common.ErrAlreadyExists
	s := newUserService(db, rm)

	_, err := s.Register(context.Background(), "kate@example.com", "pw")
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := auth.HashPassword("right")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	user := &models.User{ID: "u-1", Email: "kate@example.com", PasswordHash: hash}

	// unknown email -> unauthorized
	rmNF := newFakeRepoManager()
	rmNF.u.byEmailErr = common.ErrNotFound
	if _, err := newUserService(db, rmNF).Login(context.Background(), "ghost@example.com", "x"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("not found: want ErrUnauthorized, got %v", err)
	}

	// repo failure -> internal
	rmIE := newFakeRepoManager()
	rmIE.u.byEmailErr = errBoom{}
	if _, err := newUserService(db, rmIE).Login(context.Background(), "kate@example.com", "x"); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("repo error: want ErrInternal, got %v", err)
	}

	// wrong password -> unauthorized
	rmWP := newFakeRepoManager()
	rmWP.u.byEmailOut = user
	if _, err := newUserService(db, rmWP).Login(context.Background(), "kate@example.com", "wrong"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("wrong password: want ErrUnauthorized, got %v", err)
	}

	// success
	rmOK := newFakeRepoManager()
	rmOK.u.byEmailOut = user
	pair, err := newUserService(db, rmOK).Login(context.Background(), "Kate@Example.com", "right")
	if err != nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("Login success: pair=%+v err=%v", pair, err)
	}
	if pair.User.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", pair.User)
	}
}

func TestRefresh_RotatesTokenInTx(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.r.getOut = &models.RefreshToken{UserID: "u-1", Token: "old", ExpiresAt: time.Now().Add(time.Hour)}
	rm.u.byIDOut = &models.User{ID: "u-1", Email: "kate@example.com"}
	s := newUserService(db, rm)

	pair, err := s.Refresh(context.Background(), "old")
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if pair.RefreshToken == "old" {
		t.Fatalf("refresh token was not rotated")
	}
	if rm.r.delCalls != 1 || rm.r.createCalls != 1 {
		t.Fatalf("rotation calls: del=%d create=%d", rm.r.delCalls, rm.r.createCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefresh_Unknown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.r.getErr = common.ErrNotFound
	s := newUserService(db, rm)

	if _, err := s.Refresh(context.Background(), "ghost"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestRefresh_ExpiredDeletesToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.r.getOut = &models.RefreshToken{UserID: "u-1", Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	s := newUserService(db, rm)

	_, err := s.Refresh(context.Background(), "old")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), common.ErrRefreshTokenExpired.Error()) {
		t.Fatalf("error does not mention expiry: %v", err)
	}
	if rm.r.delCalls != 1 {
		t.Fatalf("expired token not deleted, calls=%d", rm.r.delCalls)
	}
}

func TestRefresh_DeleteErrRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.r.getOut = &models.RefreshToken{UserID: "u-1", Token: "old", ExpiresAt: time.Now().Add(time.Hour)}
	rm.u.byIDOut = &models.User{ID: "u-1"}
	rm.r.delErr = errBoom{}
	s := newUserService(db, rm)

	if _, err := s.Refresh(context.Background(), "old"); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestLogout_UnknownTokenIsFine(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := newUserService(db, rm)

	if err := s.Logout(context.Background(), "whatever"); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if rm.r.delCalls != 1 {
		t.Fatalf("token not deleted, calls=%d", rm.r.delCalls)
	}
}

func TestVerifyAccessToken_RoundTrip(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(db, newFakeRepoManager())

	token, err := auth.GenerateToken("u-7", []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	got, err := s.VerifyAccessToken(token)
	if err != nil || got != "u-7" {
		t.Fatalf("VerifyAccessToken: got (%q, %v)", got, err)
	}
}

func TestRequestPasswordReset_UnknownEmailDoesNotLeak(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u.byEmailErr = common.ErrNotFound
	s := newUserService(db, rm)

	if err := s.RequestPasswordReset(context.Background(), "ghost@example.com", ""); err != nil {
		t.Fatalf("RequestPasswordReset error: %v", err)
	}
	if rm.rs.createCalls != 0 {
		t.Fatalf("token was created for unknown account")
	}
}

func TestRequestPasswordReset_KnownEmailStoresToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u.byEmailOut = &models.User{ID: "u-1", Email: "kate@example.com"}
	s := newUserService(db, rm)

	if err := s.RequestPasswordReset(context.Background(), "kate@example.com", "app://reset"); err != nil {
		t.Fatalf("RequestPasswordReset error: %v", err)
	}
	if rm.rs.createCalls != 1 {
		t.Fatalf("token not stored, calls=%d", rm.rs.createCalls)
	}
}

func TestResetPassword_SingleUse(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.rs.getOut = &models.ResetToken{UserID: "u-1", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	s := newUserService(db, rm)

	if err := s.ResetPassword(context.Background(), "t", "newpw"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}
	if rm.u.updateHashCalls != 1 || rm.rs.markUsedCalls != 1 {
		t.Fatalf("calls: updateHash=%d markUsed=%d", rm.u.updateHashCalls, rm.rs.markUsedCalls)
	}
	if rm.r.delByUserCalls != 1 {
		t.Fatalf("sessions not revoked, calls=%d", rm.r.delByUserCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}

	// a used token no longer works
	db2, _ := newSQLMockDB(t)
	defer db2.Close()
	rmUsed := newFakeRepoManager()
	rmUsed.rs.getOut = &models.ResetToken{UserID: "u-1", Token: "t", ExpiresAt: time.Now().Add(time.Hour), Used: true}
	if err := newUserService(db2, rmUsed).ResetPassword(context.Background(), "t", "newpw"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("used token: want ErrUnauthorized, got %v", err)
	}
}

func TestResetPassword_ExpiredOrUnknown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rmExp := newFakeRepoManager()
	rmExp.rs.getOut = &models.ResetToken{UserID: "u-1", Token: "t", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := newUserService(db, rmExp).ResetPassword(context.Background(), "t", "newpw"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expired: want ErrUnauthorized, got %v", err)
	}

	rmNF := newFakeRepoManager()
	rmNF.rs.getErr = common.ErrNotFound
	if err := newUserService(db, rmNF).ResetPassword(context.Background(), "ghost", "newpw"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("unknown: want ErrUnauthorized, got %v", err)
	}
}

func TestResetPassword_FailureRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.rs.getOut = &models.ResetToken{UserID: "u-1", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	rm.u.updateHashErr = errBoom{}
	s := newUserService(db, rm)

	if err := s.ResetPassword(context.Background(), "t", "newpw"); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("want ErrInternal, got %v", err)
	}
	if rm.rs.markUsedCalls != 0 {
		t.Fatalf("token burned despite failed update")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := newUserService(db, rm)

	if err := s.UpdatePassword(context.Background(), "u-1", "newpw"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if rm.u.updateHashCalls != 1 {
		t.Fatalf("hash not updated, calls=%d", rm.u.updateHashCalls)
	}

	if err := s.UpdatePassword(context.Background(), "u-1", ""); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("empty password: want ErrValidation, got %v", err)
	}

	rmNF := newFakeRepoManager()
	rmNF.u.updateHashErr = common.ErrNotFound
	if err := newUserService(db, rmNF).UpdatePassword(context.Background(), "ghost", "newpw"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("unknown user: want ErrUnauthorized, got %v", err)
	}
}
