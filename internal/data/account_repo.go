package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/safeguard-school/safeguard-api/internal/data/pgxutil"
	"github.com/safeguard-school/safeguard-api/internal/domain/model"
)

var (
	// ErrAccountNotFound is returned when no account matches the email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailExists is returned when inserting a duplicate email.
	ErrEmailExists = errors.New("email already registered")
)

const accountColumns = "id, email, name, role, school, grade, password_hash, created_at"

// AccountRepo provides database operations for directory accounts.
type AccountRepo struct {
	DB *sql.DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

// Create inserts a new account. A duplicate email maps to ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.Account, error) {
	if req == nil {
		return nil, errors.New("create account request is required")
	}

	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO accounts (email, name, role, school, grade, password_hash)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+accountColumns,
			normalizeEmail(req.Email),
			strings.TrimSpace(req.Name),
			req.Role,
			req.School,
			req.Grade,
			req.PasswordHash,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &out, nil
}

// GetByEmail retrieves an account by its login email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
			normalizeEmail(email),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return &out, nil
}

// normalizeEmail applies the directory's canonical email form: the email
// uniquely determines identity, so lookups and inserts share one casing.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
