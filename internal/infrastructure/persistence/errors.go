package persistence

import (
	"errors"
	"strings"

	"github.com/maroccart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError("ALREADY_EXISTS", "Resource already exists", err)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern lower-cases term and wraps it for a substring LIKE match.
// Wildcards in term match literally when the clause comes from likeAny.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// likeAny matches one likePattern argument per column, case-insensitively
func likeAny(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
