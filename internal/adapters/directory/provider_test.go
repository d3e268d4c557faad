package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/safeguard-school/safeguard-api/internal/domain/auth"
	"github.com/safeguard-school/safeguard-api/internal/data"
	"github.com/safeguard-school/safeguard-api/internal/domain/model"
	"github.com/safeguard-school/safeguard-api/internal/ports"
)

// fakeDirectory is an in-memory AccountDirectory keyed by email.
type fakeDirectory struct {
	accounts map[string]*model.Account
	nextID   int

	createErr error
	getErr    error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{accounts: map[string]*model.Account{}}
}

func (f *fakeDirectory) Create(_ context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.accounts[req.Email]; exists {
		return nil, data.ErrEmailExists
	}
	f.nextID++
	acc := &model.Account{
		ID:           string(rune('0' + f.nextID)),
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		School:       req.School,
		Grade:        req.Grade,
		PasswordHash: req.PasswordHash,
	}
	f.accounts[req.Email] = acc
	return acc, nil
}

func (f *fakeDirectory) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	acc, ok := f.accounts[email]
	if !ok {
		return nil, data.ErrAccountNotFound
	}
	return acc, nil
}

func seedAccount(t *testing.T, dir *fakeDirectory, email, password string, role domainauth.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	school := "SafeGuard Elementary School"
	dir.accounts[email] = &model.Account{
		ID:           "seed-1",
		Email:        email,
		Name:         "Seeded User",
		Role:         role,
		School:       &school,
		PasswordHash: hash,
	}
}

func TestProvider_Authenticate_Success(t *testing.T) {
	dir := newFakeDirectory()
	seedAccount(t, dir, "alex@safeguard.edu", "correct-horse", domainauth.RoleStudent)
	p := NewProvider(dir, Config{})

	id, err := p.Authenticate(context.Background(), domainauth.Credentials{
		Email:    "alex@safeguard.edu",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "alex@safeguard.edu", id.Email)
	assert.Equal(t, domainauth.RoleStudent, id.Role)
	assert.Equal(t, "SafeGuard Elementary School", id.School)
}

func TestProvider_Authenticate_WrongPassword(t *testing.T) {
	dir := newFakeDirectory()
	seedAccount(t, dir, "alex@safeguard.edu", "correct-horse", domainauth.RoleStudent)
	p := NewProvider(dir, Config{})

	_, err := p.Authenticate(context.Background(), domainauth.Credentials{
		Email:    "alex@safeguard.edu",
		Password: "wrong",
	})

	require.ErrorIs(t, err, ports.ErrBadCredentials)
}

func TestProvider_Authenticate_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	p := NewProvider(newFakeDirectory(), Config{})

	_, err := p.Authenticate(context.Background(), domainauth.Credentials{
		Email:    "nobody@safeguard.edu",
		Password: "pw",
	})

	// Same error kind as a wrong password; no account enumeration.
	require.ErrorIs(t, err, ports.ErrBadCredentials)
	assert.NotErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestProvider_Authenticate_RepoFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.getErr = errors.New("connection refused")
	p := NewProvider(dir, Config{})

	_, err := p.Authenticate(context.Background(), domainauth.Credentials{
		Email:    "alex@safeguard.edu",
		Password: "pw",
	})

	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestProvider_Register_Success(t *testing.T) {
	dir := newFakeDirectory()
	p := NewProvider(dir, Config{})

	id, err := p.Register(context.Background(), domainauth.Registration{
		Email:    "new@safeguard.edu",
		Password: "pw123456",
		Name:     "New Student",
		Role:     domainauth.RoleStudent,
		Grade:    "Grade 4",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@safeguard.edu", id.Email)
	assert.Equal(t, "Grade 4", id.Grade)
	assert.Equal(t, "SafeGuard Elementary School", id.School, "default school applied")

	// The stored hash verifies against the original password.
	acc := dir.accounts["new@safeguard.edu"]
	require.NotNil(t, acc)
	assert.NoError(t, bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte("pw123456")))
}

func TestProvider_Register_DuplicateEmail(t *testing.T) {
	dir := newFakeDirectory()
	seedAccount(t, dir, "taken@safeguard.edu", "pw", domainauth.RoleStudent)
	p := NewProvider(dir, Config{})

	_, err := p.Register(context.Background(), domainauth.Registration{
		Email:    "taken@safeguard.edu",
		Password: "pw123456",
		Name:     "Other",
		Role:     domainauth.RoleStudent,
	})

	require.ErrorIs(t, err, ports.ErrBadCredentials)
}

func TestProvider_Register_RepoFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.createErr = errors.New("connection refused")
	p := NewProvider(dir, Config{})

	_, err := p.Register(context.Background(), domainauth.Registration{
		Email:    "new@safeguard.edu",
		Password: "pw123456",
		Name:     "New Student",
		Role:     domainauth.RoleStudent,
	})

	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}
