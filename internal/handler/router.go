// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kawase/internal/metrics"
	"github.com/hitoshi/kawase/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenVerifier     middleware.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string
	Metrics           metrics.MetricsCollector

	// サービス
	AuthService      AuthServiceInterface
	RatesService     RatesServiceInterface
	FavoritesService FavoritesServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → Logging → Metrics → SecurityHeaders → CORS
//
// 認証が必要なルートではさらにAuth → RateLimit(General)が適用される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics)
	ratesHandler := NewRatesHandler(deps.RatesService)
	favoritesHandler := NewFavoritesHandler(deps.FavoritesService, deps.Metrics)

	r.Route("/api", func(r chi.Router) {
		// --- 認証不要のルート ---

		// ログイン（ログイン専用のIP単位レート制限を適用）
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/auth/login", authHandler.Login)

		// ヘルスチェック
		r.Get("/health", Health)

		// 為替レート取得
		r.Get("/rates", ratesHandler.GetRates)

		// --- 認証が必要なルート ---
		// ミドルウェアスタック: Auth → RateLimit(General)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoritesHandler.ListFavorites)
				r.Post("/", favoritesHandler.AddFavorite)
				r.Delete("/{symbol}", favoritesHandler.RemoveFavorite)
			})
		})
	})

	return r
}
