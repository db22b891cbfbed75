package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstraintClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		unique bool
		check  bool
		fk     bool
	}{
		{"nil", nil, false, false, false},
		{"plain error", errors.New("connection reset"), false, false, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true, false, false},
		{"gorm check", gorm.ErrCheckConstraintViolated, false, true, false},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, false, false, true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true, false, false},
		{"postgres check", &pgconn.PgError{Code: "23514"}, false, true, false},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false, false, true},
		{"postgres wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true, false, false},
		{"sqlite unique", errors.New("UNIQUE constraint failed: follows.user_id, follows.author_id"), true, false, false},
		{"sqlite check", errors.New("CHECK constraint failed: chk_follows_not_self"), false, true, false},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), false, false, true},
		{"postgres other", &pgconn.PgError{Code: "40001"}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.check, IsCheckViolation(tt.err))
			assert.Equal(t, tt.fk, IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.unique || tt.check || tt.fk, IsConstraintViolation(tt.err))
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "yatube.sqlite3?_foreign_keys=on", SQLiteDSN("yatube.sqlite3"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
}
