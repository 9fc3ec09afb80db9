package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/zibbid/postboard/internal/common/db"
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/filter"
	"github.com/zibbid/postboard/internal/post/domain"
)

type Repository interface {
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	FindByID(ctx context.Context, id int64) (domain.Post, error)
	List(ctx context.Context, q filter.Query) ([]domain.Post, error)
	Update(ctx context.Context, id int64, patch domain.Patch) (domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

const postColumns = "id, title, content, user_id, created_at, updated_at"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO posts (title, content, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+postColumns,
		post.Title,
		post.Content,
		post.UserID,
	)

	created, err := scanPost(row)
	if err := commondb.HandleQueryError(err, commonerrors.ErrPostNotFound, "create post", start); err != nil {
		return domain.Post{}, err
	}

	return created, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Post, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`,
		id,
	)

	post, err := scanPost(row)
	if err := commondb.HandleQueryError(err, commonerrors.ErrPostNotFound, "find post by id", start); err != nil {
		return domain.Post{}, err
	}

	return post, nil
}

func (r *PgRepository) List(ctx context.Context, q filter.Query) ([]domain.Post, error) {
	start := time.Now()

	sql := `SELECT ` + postColumns + ` FROM posts`
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
		return nil, commondb.HandleQueryError(err, commonerrors.ErrPostNotFound, "list posts", start)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	commondb.HandleExecError(nil, "list posts", start)
	return posts, nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Post, error) {
	start := time.Now()

	var set []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	set = append(set, "updated_at = now()")

	args = append(args, id)
	sql := fmt.Sprintf(
		`UPDATE posts SET %s WHERE id = $%d RETURNING `+postColumns,
		strings.Join(set, ", "),
		len(args),
	)

	updated, err := scanPost(r.pool.QueryRow(ctx, sql, args...))
	if err := commondb.HandleQueryError(err, commonerrors.ErrPostNotFound, "update post", start); err != nil {
		return domain.Post{}, err
	}

	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err := commondb.HandleExecError(err, "delete post", start); err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrPostNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (domain.Post, error) {
	var post domain.Post
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.UserID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}
