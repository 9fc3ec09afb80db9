package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/zibbid/postboard/internal/common/db"
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/filter"
	"github.com/zibbid/postboard/internal/user/domain"
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context, q filter.Query) ([]domain.User, error)
	Update(ctx context.Context, id int64, patch domain.Patch) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

const userColumns = "id, email, password_hash, role, created_at, updated_at"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Create inserts the user and relies on the unique index on email as the
// authoritative uniqueness guard; there is deliberately no pre-check.
func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (email, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		user.Email,
		user.PasswordHash,
		string(user.Role),
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, commonerrors.ErrEmailAlreadyExists
		}
		return domain.User{}, commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "create user", start)
	}

	commondb.HandleExecError(nil, "create user", start)
	return created, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)

	user, err := scanUser(row)
	if err := commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by email", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)

	user, err := scanUser(row)
	if err := commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) List(ctx context.Context, q filter.Query) ([]domain.User, error) {
	start := time.Now()

	sql := `SELECT ` + userColumns + ` FROM users`
	if q.Where != "" {
		sql += " WHERE " + q.Where
	}
	if q.OrderBy != "" {
		sql += " ORDER BY " + q.OrderBy
	} else {
		sql += " ORDER BY id ASC"
	}

	args := append([]any{}, q.Args...)
	args = append(args, q.Limit, q.Offset)
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(q.Args)+1, len(q.Args)+2)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "list users", start)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	commondb.HandleExecError(nil, "list users", start)
	return users, nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, patch domain.Patch) (domain.User, error) {
	start := time.Now()

	var set []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.Role != nil {
		add("role", string(*patch.Role))
	}
	set = append(set, "updated_at = now()")

	args = append(args, id)
	sql := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(set, ", "),
		len(args),
	)

	updated, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, commonerrors.ErrEmailAlreadyExists
		}
		return domain.User{}, commondb.HandleQueryError(err, commonerrors.ErrUserNotFound, "update user", start)
	}

	commondb.HandleExecError(nil, "update user", start)
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err := commondb.HandleExecError(err, "delete user", start); err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = domain.Role(role)
	return user, nil
}
