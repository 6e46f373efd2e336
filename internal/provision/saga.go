// Package provision は生徒アカウントのプロビジョニングを提供する。
// クラス解決、ユーザー名交渉、アイデンティティ作成、レコード保存を順に実行し、
// 保存失敗時には補償（アイデンティティ削除）で2サービス間の整合性を回復する。
package provision

import (
	"context"
	"fmt"
	"log/slog"
)

// SagaStep は補償付きの1ステップを表す。
// Compensateがnilのステップは失敗しても巻き戻す対象を持たない。
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepError はどのステップで失敗したかを保持するエラー。
type StepError struct {
	Step string
	Err  error
}

// Error はerrorインターフェースを実装する。
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

// Unwrap はステップの元エラーを返す。
func (e *StepError) Unwrap() error {
	return e.Err
}

// Saga は順序付きステップ列を実行し、途中で失敗した場合は
// 完了済みステップの補償を逆順に実行する。
// 2つの外部サービスにまたがるトランザクションが使えないため、
// 補償が唯一の整合性回復手段となる。
type Saga struct {
	logger *slog.Logger

	// OnCompensationError は補償自体が失敗した場合に呼ばれる。
	// 孤立したアイデンティティ等、手動復旧が必要な不整合の通知用。
	OnCompensationError func(stepName string, err error)
}

// NewSaga はSagaを生成する。
func NewSaga(logger *slog.Logger) *Saga {
	return &Saga{logger: logger}
}

// Execute はステップを順に実行する。
// ステップiが失敗した場合、ステップi-1..0の補償を逆順に実行した上で
// 失敗ステップを特定できる*StepErrorを返す。
// 補償の失敗は呼び出し元へのエラーには昇格させず、ログとフックで通知する。
func (s *Saga) Execute(ctx context.Context, steps []SagaStep) error {
	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			s.compensate(ctx, steps[:i])
			return &StepError{Step: step.Name, Err: err}
		}
	}
	return nil
}

// compensate は完了済みステップの補償を逆順に実行する。
func (s *Saga) compensate(ctx context.Context, completed []SagaStep) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("補償の実行に失敗しました（手動復旧が必要な不整合の可能性）",
				slog.String("step", step.Name),
				slog.String("error", err.Error()),
			)
			if s.OnCompensationError != nil {
				s.OnCompensationError(step.Name, err)
			}
			continue
		}

		s.logger.Info("補償を実行しました",
			slog.String("step", step.Name),
		)
	}
}
