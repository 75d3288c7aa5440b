package lockutil

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate adds a row lock on dialects that support one. SQLite locks the
// whole database for the write transaction, so the clause is skipped there.
func ForUpdate(q *gorm.DB) *gorm.DB {
	if q == nil || q.Dialector == nil {
		return q
	}
	if q.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}
