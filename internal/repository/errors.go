package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateUsername はstudents.usernameの一意制約違反を表す。
	// オーケストレータはこのエラーをユーザー名再交渉のトリガーとして扱う。
	ErrDuplicateUsername = errors.New("a student with this username already exists")

	// ErrDuplicateClassroom はclassroomsの(teacher_id, name)一意制約違反を表す。
	// オーケストレータはこのエラーを既存クラスの再取得・再利用のトリガーとして扱う。
	ErrDuplicateClassroom = errors.New("a classroom with this name already exists for this teacher")
)

// PostgreSQLのunique_violationエラーコード
const uniqueViolationCode = "23505"

// isUniqueViolation はerrが指定制約に対するPostgreSQLの一意制約違反かを判定する。
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolationCode && pqErr.Constraint == constraint
}
