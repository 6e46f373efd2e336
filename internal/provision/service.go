package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hezha00/english-arcade-sub001/internal/identity"
	"github.com/Hezha00/english-arcade-sub001/internal/model"
	"github.com/Hezha00/english-arcade-sub001/internal/repository"
)

// サーガのステップ名
const (
	stepCreateIdentity = "create_identity"
	stepPersistStudent = "persist_student"
)

// NameSanitizer は入力テキストからHTMLを除去する。
// security.NameSanitizerServiceが実装する。
type NameSanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はプロビジョニングのメトリクス記録インターフェース。
// metrics.Collectorが実装する。
type MetricsRecorder interface {
	RecordProvisionSuccess()
	RecordProvisionFailure(code string)
	RecordCompensation()
	RecordOrphanedIdentity()
	RecordProvisionLatency(duration time.Duration)
}

// Service はプロビジョニングのオーケストレータ。
// 1リクエストを単一の逐次フローとして処理する。リクエスト間で共有する可変状態は持たない。
type Service struct {
	classrooms repository.ClassroomRepository
	students   repository.StudentRepository
	identity   identity.Service
	sanitizer  NameSanitizer
	metrics    MetricsRecorder
	usernames  *UsernameGenerator
	saga       *Saga
	logger     *slog.Logger

	emailDomain string

	// テスト用に差し替え可能なパスワード生成関数
	genPassword func() (string, error)
}

// NewService はServiceを生成する。
// usernamesがnilの場合はデフォルトの乱数源を持つ生成器を使用する。
func NewService(
	classrooms repository.ClassroomRepository,
	students repository.StudentRepository,
	identitySvc identity.Service,
	sanitizer NameSanitizer,
	metricsRec MetricsRecorder,
	usernames *UsernameGenerator,
	logger *slog.Logger,
	emailDomain string,
) *Service {
	if usernames == nil {
		usernames = NewUsernameGenerator(nil)
	}

	saga := NewSaga(logger)
	saga.OnCompensationError = func(stepName string, err error) {
		// 補償失敗＝孤立アイデンティティの発生。手動復旧対象として計数する。
		metricsRec.RecordOrphanedIdentity()
	}

	return &Service{
		classrooms:  classrooms,
		students:    students,
		identity:    identitySvc,
		sanitizer:   sanitizer,
		metrics:     metricsRec,
		usernames:   usernames,
		saga:        saga,
		logger:      logger,
		emailDomain: emailDomain,
		genPassword: GeneratePassword,
	}
}

// Provision は生徒アカウントを作成し、1回限りの資格情報を返す。
//
// 状態遷移: Start → ClassroomResolved → UsernameChosen → IdentityCreated → Persisted。
// Start以降の各状態からFailedへの失敗エッジがあり、IdentityCreated→Failedの
// エッジのみ補償（アイデンティティ削除）を伴う。
func (s *Service) Provision(ctx context.Context, req *model.ProvisionRequest) (*model.StudentCredentials, error) {
	start := time.Now()

	creds, err := s.provision(ctx, req)

	s.metrics.RecordProvisionLatency(time.Since(start))
	if err != nil {
		s.metrics.RecordProvisionFailure(failureCode(err))
		return nil, err
	}

	s.metrics.RecordProvisionSuccess()
	return creds, nil
}

// provision はプロビジョニングの本体。
func (s *Service) provision(ctx context.Context, req *model.ProvisionRequest) (*model.StudentCredentials, error) {
	// 1. 検証。いずれかのフィールドが欠けていれば副作用ゼロで拒否する。
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, model.NewInvalidRequestError(missing)
	}

	clean := s.sanitizeRequest(req)
	if missing := clean.MissingFields(); len(missing) > 0 {
		// サニタイズで空になったフィールド（HTMLのみの入力等）も欠落として扱う
		return nil, model.NewInvalidRequestError(missing)
	}

	// 2. クラス解決（find-or-create）
	classroom, err := s.resolveClassroom(ctx, clean)
	if err != nil {
		return nil, err
	}

	// 3. パスワード生成
	password, err := s.genPassword()
	if err != nil {
		return nil, fmt.Errorf("パスワードの生成に失敗しました: %w", err)
	}

	// 4. ユーザー名交渉 + アイデンティティ作成 + レコード保存。
	// 事前チェックはベストエフォートであり、最終的な一意性はstudents.usernameの
	// 一意制約が保証する。INSERT時に制約違反が検出された場合は補償後に
	// 残り試行回数の範囲で再交渉する。
	attempts := 0
	for attempts < maxUsernameAttempts {
		username := s.usernames.Candidate(clean.FirstName)
		attempts++

		exists, err := s.students.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("ユーザー名の重複確認に失敗しました: %w", err)
		}
		if exists {
			continue
		}

		creds, err := s.createAccount(ctx, clean, classroom, username, password)
		if err == nil {
			return creds, nil
		}

		var stepErr *StepError
		if !errors.As(err, &stepErr) {
			return nil, err
		}

		if stepErr.Step == stepCreateIdentity {
			// アイデンティティ未作成のため補償は不要。クラスは意図的に残す
			// （作成済みクラスは再試行リクエストでそのまま再利用できる）。
			return nil, model.NewIdentityCreateFailedError(stepErr.Err)
		}

		// レコード保存失敗。補償（アイデンティティ削除）はサーガが実行済み。
		s.metrics.RecordCompensation()

		if errors.Is(stepErr.Err, repository.ErrDuplicateUsername) && attempts < maxUsernameAttempts {
			s.logger.Warn("ユーザー名がINSERT時に衝突したため再交渉します",
				slog.String("username", username),
				slog.Int("attempts", attempts),
			)
			continue
		}

		return nil, model.NewPersistFailedError(stepErr.Err)
	}

	return nil, model.NewUsernameExhaustedError(maxUsernameAttempts)
}

// createAccount はアイデンティティ作成とレコード保存をサーガとして実行する。
// レコード保存が失敗した場合、作成済みアイデンティティの削除（補償）は
// サーガが実行した上で*StepErrorを返す。
func (s *Service) createAccount(
	ctx context.Context,
	req *model.ProvisionRequest,
	classroom *model.Classroom,
	username, password string,
) (*model.StudentCredentials, error) {
	email := username + "@" + s.emailDomain

	var identityID string
	steps := []SagaStep{
		{
			Name: stepCreateIdentity,
			Run: func(ctx context.Context) error {
				id, err := s.identity.CreateIdentity(ctx, identity.CreateParams{
					Email:     email,
					Password:  password,
					Confirmed: true,
					Metadata:  map[string]string{"role": "student"},
				})
				if err != nil {
					return err
				}
				identityID = id
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.identity.DeleteIdentity(ctx, identityID)
			},
		},
		{
			Name: stepPersistStudent,
			Run: func(ctx context.Context) error {
				return s.students.Create(ctx, &model.Student{
					ID:            identityID,
					Name:          req.FullName(),
					Username:      username,
					Password:      password,
					TeacherID:     req.TeacherID,
					ClassroomName: classroom.Name,
					ClassroomID:   classroom.ID,
					School:        req.School,
					YearLevel:     req.YearLevel,
				})
			},
		},
	}

	if err := s.saga.Execute(ctx, steps); err != nil {
		return nil, err
	}

	s.logger.Info("生徒アカウントを作成しました",
		slog.String("student_id", identityID),
		slog.String("username", username),
		slog.String("teacher_id", req.TeacherID),
		slog.String("classroom_id", classroom.ID),
	)

	return &model.StudentCredentials{
		Name:     req.FullName(),
		Username: username,
		Password: password,
	}, nil
}

// resolveClassroom は(classroom_name, teacher_id)でクラスをfind-or-createする。
// 同時リクエストとの作成競合は一意制約違反として検出し、既存行を再取得して再利用する。
func (s *Service) resolveClassroom(ctx context.Context, req *model.ProvisionRequest) (*model.Classroom, error) {
	found, err := s.classrooms.FindByNameAndTeacher(ctx, req.ClassroomName, req.TeacherID)
	if err != nil {
		return nil, model.NewClassroomCreateFailedError(err)
	}
	if found != nil {
		return found, nil
	}

	classroom := &model.Classroom{
		Name:      req.ClassroomName,
		School:    req.School,
		TeacherID: req.TeacherID,
		YearLevel: req.YearLevel,
	}

	err = s.classrooms.Create(ctx, classroom)
	if err == nil {
		s.logger.Info("クラスを作成しました",
			slog.String("classroom_id", classroom.ID),
			slog.String("teacher_id", req.TeacherID),
			slog.String("name", req.ClassroomName),
		)
		return classroom, nil
	}

	if errors.Is(err, repository.ErrDuplicateClassroom) {
		// 同時リクエストが先に作成済み。既存行を再取得して再利用する。
		found, ferr := s.classrooms.FindByNameAndTeacher(ctx, req.ClassroomName, req.TeacherID)
		if ferr == nil && found != nil {
			return found, nil
		}
	}

	return nil, model.NewClassroomCreateFailedError(err)
}

// sanitizeRequest はリクエストの各テキストフィールドをサニタイズしたコピーを返す。
func (s *Service) sanitizeRequest(req *model.ProvisionRequest) *model.ProvisionRequest {
	return &model.ProvisionRequest{
		TeacherID:     req.TeacherID,
		ClassroomName: s.sanitizer.Sanitize(req.ClassroomName),
		School:        s.sanitizer.Sanitize(req.School),
		YearLevel:     s.sanitizer.Sanitize(req.YearLevel),
		FirstName:     s.sanitizer.Sanitize(req.FirstName),
		LastName:      s.sanitizer.Sanitize(req.LastName),
	}
}

// failureCode はメトリクス用の失敗コードを返す。
func failureCode(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return "INTERNAL_ERROR"
}
