package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// PostgresStudentRepo はPostgreSQLを使用した生徒リポジトリ。
type PostgresStudentRepo struct {
	db *sql.DB
}

// NewPostgresStudentRepo はPostgresStudentRepoを生成する。
func NewPostgresStudentRepo(db *sql.DB) *PostgresStudentRepo {
	return &PostgresStudentRepo{db: db}
}

// ExistsByUsername は指定ユーザー名の生徒が存在するかを返す。
// ユーザー名交渉の事前チェック用。最終的な一意性保証はstudents_username_key制約が担う。
func (r *PostgresStudentRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// Create は生徒レコードを作成する。
// usernameの一意制約違反はErrDuplicateUsernameとして返す。
func (r *PostgresStudentRepo) Create(ctx context.Context, student *model.Student) error {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (id, name, username, password, teacher_id, classroom_name, classroom_id, school, year_level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		student.ID, student.Name, student.Username, student.Password, student.TeacherID,
		student.ClassroomName, student.ClassroomID, student.School, student.YearLevel, student.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "students_username_key") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to insert student: %w", err)
	}

	return nil
}

// ListByTeacher は指定教師の生徒一覧を作成日時の昇順で返す。
// classroomIDが空でない場合はそのクラスに絞り込む。
func (r *PostgresStudentRepo) ListByTeacher(ctx context.Context, teacherID, classroomID string) ([]*model.Student, error) {
	query := `SELECT id, name, username, password, teacher_id, classroom_name, classroom_id, school, year_level, created_at
		 FROM students WHERE teacher_id = $1`
	args := []any{teacherID}

	if classroomID != "" {
		query += ` AND classroom_id = $2`
		args = append(args, classroomID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		s := &model.Student{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Username, &s.Password, &s.TeacherID,
			&s.ClassroomName, &s.ClassroomID, &s.School, &s.YearLevel, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// compile-time interface check
var _ StudentRepository = (*PostgresStudentRepo)(nil)
