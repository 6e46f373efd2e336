package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// PostgresClassroomRepo はPostgreSQLを使用したクラスリポジトリ。
type PostgresClassroomRepo struct {
	db *sql.DB
}

// NewPostgresClassroomRepo はPostgresClassroomRepoを生成する。
func NewPostgresClassroomRepo(db *sql.DB) *PostgresClassroomRepo {
	return &PostgresClassroomRepo{db: db}
}

// FindByNameAndTeacher は(name, teacher_id)でクラスを検索する。見つからない場合はnilを返す。
func (r *PostgresClassroomRepo) FindByNameAndTeacher(ctx context.Context, name, teacherID string) (*model.Classroom, error) {
	classroom := &model.Classroom{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, school, teacher_id, year_level, created_at
		 FROM classrooms WHERE name = $1 AND teacher_id = $2`,
		name, teacherID,
	).Scan(&classroom.ID, &classroom.Name, &classroom.School, &classroom.TeacherID, &classroom.YearLevel, &classroom.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find classroom: %w", err)
	}

	return classroom, nil
}

// Create はクラスを作成し、採番したIDをclassroomに書き戻す。
// (teacher_id, name)の一意制約違反はErrDuplicateClassroomとして返す。
func (r *PostgresClassroomRepo) Create(ctx context.Context, classroom *model.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.New().String()
	}
	if classroom.CreatedAt.IsZero() {
		classroom.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO classrooms (id, name, school, teacher_id, year_level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		classroom.ID, classroom.Name, classroom.School, classroom.TeacherID, classroom.YearLevel, classroom.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "classrooms_teacher_id_name_key") {
			return ErrDuplicateClassroom
		}
		return fmt.Errorf("failed to insert classroom: %w", err)
	}

	return nil
}

// ListByTeacher は指定教師のクラス一覧を作成日時の昇順で返す。
func (r *PostgresClassroomRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*model.Classroom, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, school, teacher_id, year_level, created_at
		 FROM classrooms WHERE teacher_id = $1 ORDER BY created_at ASC`,
		teacherID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list classrooms: %w", err)
	}
	defer rows.Close()

	var classrooms []*model.Classroom
	for rows.Next() {
		c := &model.Classroom{}
		if err := rows.Scan(&c.ID, &c.Name, &c.School, &c.TeacherID, &c.YearLevel, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classroom: %w", err)
		}
		classrooms = append(classrooms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classrooms: %w", err)
	}

	return classrooms, nil
}

// compile-time interface check
var _ ClassroomRepository = (*PostgresClassroomRepo)(nil)
