package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Hezha00/english-arcade-sub001/internal/metrics"
	"github.com/Hezha00/english-arcade-sub001/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// プロビジョニング
	ProvisionService ProvisionServiceInterface

	// 参照系
	ClassroomLister ClassroomListerInterface
	StudentLister   StudentListerInterface

	// ヘルスチェック
	DB DBPinger

	// メトリクス公開（nilの場合は/metricsを公開しない）
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → RateLimit(General)
//
// /healthと/metricsはレート制限の外に配置する（監視系からの定期アクセスを制限しない）。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORSミドルウェアを最上位に適用（プリフライトを全ルートで処理する）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	provisionHandler := NewProvisionHandler(deps.ProvisionService)
	classroomHandler := NewClassroomHandler(deps.ClassroomLister)
	studentHandler := NewStudentHandler(deps.StudentLister)
	healthHandler := NewHealthHandler(deps.DB)

	// --- 監視系ルート ---

	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 生徒管理
		r.Route("/api/students", func(r chi.Router) {
			// POST /api/students - プロビジョニング（専用レート制限を追加）
			r.With(deps.RateLimiter.ProvisionMiddleware()).Post("/", provisionHandler.ProvisionStudent)
			r.Get("/", studentHandler.ListStudents)
		})

		// クラス参照
		r.Get("/api/classrooms", classroomHandler.ListClassrooms)
	})

	return r
}
