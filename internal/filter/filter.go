// Package filter turns pagination/search/sort query parameters into the
// SQL fragments the listing repositories execute. Sort fields are checked
// against a per-entity allow-list so an unrecognized field fails loudly
// instead of being dropped.
package filter

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zibbid/postboard/internal/common/constants"
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
)

type Entity string

const (
	EntityPosts Entity = "posts"
	EntityUsers Entity = "users"
)

type Request struct {
	Page        int
	Limit       int
	Search      string
	Description bool
	Sort        string
	Order       string
}

// ParseRequest reads a Request from URL query parameters, applying the
// page=1, limit=10 defaults.
func ParseRequest(values url.Values) (Request, error) {
	req := Request{
		Page:  constants.DefaultPage,
		Limit: constants.DefaultPageLimit,
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, validationError("page must be an integer")
		}
		if page < 1 {
			return Request{}, validationError("page must be at least 1")
		}
		req.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, validationError("limit must be an integer")
		}
		if limit < 1 {
			return Request{}, validationError("limit must be at least 1")
		}
		if limit > constants.MaxPageLimit {
			limit = constants.MaxPageLimit
		}
		req.Limit = limit
	}

	req.Search = values.Get("search")
	req.Description = values.Get("description") != ""
	req.Sort = values.Get("sort")
	req.Order = values.Get("order")

	return req, nil
}

// Query is the store-side form of a Request: a WHERE fragment with
// positional args, an ORDER BY fragment, and the page window.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Offset  int
	Limit   int
}

var sortableColumns = map[Entity]map[string]string{
	EntityPosts: {
		"id":        "id",
		"title":     "title",
		"content":   "content",
		"userId":    "user_id",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	EntityUsers: {
		"id":        "id",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
}

var orderDirections = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

// likeEscaper neutralizes LIKE metacharacters so the search term matches
// as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Build translates a Request into a Query for the given entity.
func Build(req Request, entity Entity) (Query, error) {
	q := Query{
		Offset: (req.Page - 1) * req.Limit,
		Limit:  req.Limit,
	}

	var conds []string

	if req.Search != "" {
		q.Args = append(q.Args, "%"+likeEscaper.Replace(req.Search)+"%")
		placeholder := fmt.Sprintf("$%d", len(q.Args))

		switch entity {
		case EntityPosts:
			conds = append(conds, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s)", placeholder, placeholder))
		case EntityUsers:
			conds = append(conds, fmt.Sprintf("email ILIKE %s", placeholder))
		}
	}

	// The description flag means "post has content".
	if req.Description && entity == EntityPosts {
		conds = append(conds, "content <> ''")
	}

	q.Where = strings.Join(conds, " AND ")

	// Ordering applies only when both halves of the sort pair are present.
	if req.Sort != "" && req.Order != "" {
		column, ok := sortableColumns[entity][req.Sort]
		if !ok {
			return Query{}, validationError(fmt.Sprintf("cannot sort %s by %q", entity, req.Sort))
		}

		direction, ok := orderDirections[strings.ToLower(req.Order)]
		if !ok {
			return Query{}, validationError("order must be asc or desc")
		}

		q.OrderBy = column + " " + direction
	}

	return q, nil
}

func validationError(message string) error {
	return commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		message,
	)
}
