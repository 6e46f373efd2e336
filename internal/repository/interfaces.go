// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// ClassroomRepository はクラスデータの永続化インターフェース。
type ClassroomRepository interface {
	// FindByNameAndTeacher は(name, teacher_id)でクラスを検索する。見つからない場合はnilを返す。
	FindByNameAndTeacher(ctx context.Context, name, teacherID string) (*model.Classroom, error)

	// Create はクラスを作成し、採番したIDをclassroomに書き戻す。
	// (teacher_id, name)の一意制約違反はErrDuplicateClassroomとして返す。
	Create(ctx context.Context, classroom *model.Classroom) error

	// ListByTeacher は指定教師のクラス一覧を作成日時の昇順で返す。
	ListByTeacher(ctx context.Context, teacherID string) ([]*model.Classroom, error)
}

// StudentRepository は生徒アカウントデータの永続化インターフェース。
type StudentRepository interface {
	// ExistsByUsername は指定ユーザー名の生徒が存在するかを返す。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Create は生徒レコードを作成する。IDは呼び出し元が設定する
	// （アイデンティティプロバイダ発行のIDを主キーとして共有するため）。
	// usernameの一意制約違反はErrDuplicateUsernameとして返す。
	Create(ctx context.Context, student *model.Student) error

	// ListByTeacher は指定教師の生徒一覧を作成日時の昇順で返す。
	// classroomIDが空でない場合はそのクラスに絞り込む。
	ListByTeacher(ctx context.Context, teacherID, classroomID string) ([]*model.Student, error)
}
