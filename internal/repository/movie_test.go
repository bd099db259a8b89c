package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "inception", NormalizeTitle("  Inception "))
	assert.Equal(t, "the matrix", NormalizeTitle("The Matrix"))
	assert.Equal(t, "", NormalizeTitle("   "))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}

	assert.True(t, isUniqueViolation(dup))
	// gorm 返回的错误可能被包装过
	assert.True(t, isUniqueViolation(fmt.Errorf("插入失败: %w", dup)))

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.False(t, isUniqueViolation(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike(`100%`))
	assert.Equal(t, `a\_b`, escapeLike(`a_b`))
	assert.Equal(t, `c:\\movies`, escapeLike(`c:\movies`))
	assert.Equal(t, "matrix", escapeLike("matrix"))
}
