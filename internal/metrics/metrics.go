// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// プロビジョニングサービスから利用する。
type MetricsCollector interface {
	RecordProvisionSuccess()
	RecordProvisionFailure(code string)
	RecordCompensation()
	RecordOrphanedIdentity()
	RecordProvisionLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	provisionSuccess prometheus.Counter
	provisionFail    *prometheus.CounterVec
	compensations    prometheus.Counter
	orphanedIdentity prometheus.Counter
	provisionLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		provisionSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcade_provision_success_total",
			Help: "生徒プロビジョニング成功の合計数",
		}),
		provisionFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_provision_fail_total",
			Help: "エラーコード別のプロビジョニング失敗数",
		}, []string{"code"}),
		compensations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcade_compensation_total",
			Help: "レコード保存失敗に伴うアイデンティティ削除（補償）の合計数",
		}),
		orphanedIdentity: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arcade_orphaned_identity_total",
			Help: "補償に失敗し孤立した可能性のあるアイデンティティの合計数",
		}),
		provisionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arcade_provision_latency_seconds",
			Help:    "プロビジョニング全体のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.provisionSuccess,
		c.provisionFail,
		c.compensations,
		c.orphanedIdentity,
		c.provisionLatency,
	)

	return c
}

// RecordProvisionSuccess はプロビジョニング成功を記録する。
func (c *Collector) RecordProvisionSuccess() {
	c.provisionSuccess.Inc()
}

// RecordProvisionFailure はプロビジョニング失敗をエラーコード付きで記録する。
func (c *Collector) RecordProvisionFailure(code string) {
	c.provisionFail.WithLabelValues(code).Inc()
}

// RecordCompensation はアイデンティティ削除による補償の実行を記録する。
func (c *Collector) RecordCompensation() {
	c.compensations.Inc()
}

// RecordOrphanedIdentity は補償失敗による孤立アイデンティティを記録する。
// この値が増えたら手動クリーンアップの対象を調査する。
func (c *Collector) RecordOrphanedIdentity() {
	c.orphanedIdentity.Inc()
}

// RecordProvisionLatency はプロビジョニングのレイテンシを記録する。
func (c *Collector) RecordProvisionLatency(duration time.Duration) {
	c.provisionLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
