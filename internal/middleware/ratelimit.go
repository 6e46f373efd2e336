package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）。120/60 = 2 req/sec
	GeneralBurst    int           // API全般のバーストサイズ
	ProvisionRate   rate.Limit    // 生徒プロビジョニングのレート（req/sec）。30/60
	ProvisionBurst  int           // 生徒プロビジョニングのバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 要件: API全般 120 req/min/IP、プロビジョニング 30 req/min/IP
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		ProvisionRate:   rate.Limit(30.0 / 60.0), // 0.5 req/sec
		ProvisionBurst:  30,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントIPごとのレート制限を管理する。
// API全般のレート制限とプロビジョニング専用のレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*clientLimiter

	provisionMu       sync.RWMutex
	provisionLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:            config,
		generalLimiters:   make(map[string]*clientLimiter),
		provisionLimiters: make(map[string]*clientLimiter),
		stopCh:            make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// ClientIP はリクエスト元のクライアントIPを返す。
// リバースプロキシ背後での運用を想定し、X-Forwarded-Forの先頭を優先する。
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			limiter := rl.getOrCreateGeneralLimiter(ip)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("remote_ip", ip),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ProvisionMiddleware は生徒プロビジョニング専用のレート制限ミドルウェアを返す。
// アイデンティティプロバイダへの外部呼び出しを伴うため、API全般より厳しく制限する。
func (rl *RateLimiter) ProvisionMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			limiter := rl.getOrCreateProvisionLimiter(ip)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.ProvisionRate)
				slog.Warn("rate limit exceeded",
					slog.String("remote_ip", ip),
					slog.String("limit_type", "provision"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// ProvisionLimiterCount は現在管理されているプロビジョニングリミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) ProvisionLimiterCount() int {
	rl.provisionMu.RLock()
	defer rl.provisionMu.RUnlock()
	return len(rl.provisionLimiters)
}

// getOrCreateGeneralLimiter はクライアントのAPI全般リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateGeneralLimiter(ip string) *rate.Limiter {
	rl.generalMu.RLock()
	cl, exists := rl.generalLimiters[ip]
	rl.generalMu.RUnlock()

	if exists {
		rl.generalMu.Lock()
		cl.lastAccess = time.Now()
		rl.generalMu.Unlock()
		return cl.limiter
	}

	rl.generalMu.Lock()
	defer rl.generalMu.Unlock()

	// ダブルチェック
	if cl, exists := rl.generalLimiters[ip]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.generalLimiters[ip] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// getOrCreateProvisionLimiter はクライアントのプロビジョニングリミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateProvisionLimiter(ip string) *rate.Limiter {
	rl.provisionMu.RLock()
	cl, exists := rl.provisionLimiters[ip]
	rl.provisionMu.RUnlock()

	if exists {
		rl.provisionMu.Lock()
		cl.lastAccess = time.Now()
		rl.provisionMu.Unlock()
		return cl.limiter
	}

	rl.provisionMu.Lock()
	defer rl.provisionMu.Unlock()

	// ダブルチェック
	if cl, exists := rl.provisionLimiters[ip]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.ProvisionRate, rl.config.ProvisionBurst)
	rl.provisionLimiters[ip] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for ip, cl := range rl.generalLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.generalLimiters, ip)
		}
	}
	rl.generalMu.Unlock()

	rl.provisionMu.Lock()
	for ip, cl := range rl.provisionLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.provisionLimiters, ip)
		}
	}
	rl.provisionMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error:   "RATE_LIMITED",
		Details: "リクエストが多すぎます。しばらく待ってから再度お試しください。",
	})
}
