package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kawase/internal/metrics"
	"github.com/hitoshi/kawase/internal/middleware"
	"github.com/hitoshi/kawase/internal/model"
)

// FavoritesServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoritesServiceInterface interface {
	// List はユーザーのお気に入りシンボル一覧を登録順で返す。
	List(ctx context.Context, userID int64) ([]string, error)
	// Add はシンボルをお気に入りに追加し、正規化後のシンボルを返す。
	Add(ctx context.Context, userID int64, symbol string) (string, error)
	// Remove はシンボルをお気に入りから削除する。
	Remove(ctx context.Context, userID int64, symbol string) error
}

// FavoritesHandler はお気に入り通貨管理のHTTPハンドラー。
type FavoritesHandler struct {
	service FavoritesServiceInterface
	metrics metrics.MetricsCollector
}

// NewFavoritesHandler はFavoritesHandlerを生成する。
func NewFavoritesHandler(service FavoritesServiceInterface, collector metrics.MetricsCollector) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
		metrics: collector,
	}
}

// addFavoriteRequest はお気に入り追加リクエストのボディ。
type addFavoriteRequest struct {
	Symbol string `json:"symbol"`
}

// addFavoriteResponse はお気に入り追加成功時のレスポンス。
type addFavoriteResponse struct {
	Symbol string `json:"symbol"`
}

// messageResponse は削除成功時のレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// ListFavorites はお気に入り一覧の取得を処理する。
// GET /api/favorites
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
		return
	}

	symbols, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordFavoriteOp("list")
	writeJSON(w, http.StatusOK, symbols)
}

// AddFavorite はお気に入りの追加を処理する。
// POST /api/favorites
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
		return
	}

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	symbol, err := h.service.Add(r.Context(), claims.UserID, req.Symbol)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordFavoriteOp("add")
	writeJSON(w, http.StatusCreated, addFavoriteResponse{Symbol: symbol})
}

// RemoveFavorite はお気に入りの削除を処理する。
// DELETE /api/favorites/{symbol}
func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewTokenMissingError())
		return
	}

	symbol := chi.URLParam(r, "symbol")
	if err := h.service.Remove(r.Context(), claims.UserID, symbol); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordFavoriteOp("remove")
	writeJSON(w, http.StatusOK, messageResponse{Message: "お気に入りを削除しました。"})
}
