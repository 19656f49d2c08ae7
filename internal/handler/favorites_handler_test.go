package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kawase/internal/metrics"
	"github.com/hitoshi/kawase/internal/middleware"
	"github.com/hitoshi/kawase/internal/model"
)

// mockFavoritesService はFavoritesServiceInterfaceのモック実装。
type mockFavoritesService struct {
	listFn   func(ctx context.Context, userID int64) ([]string, error)
	addFn    func(ctx context.Context, userID int64, symbol string) (string, error)
	removeFn func(ctx context.Context, userID int64, symbol string) error
}

func (m *mockFavoritesService) List(ctx context.Context, userID int64) ([]string, error) {
	return m.listFn(ctx, userID)
}

func (m *mockFavoritesService) Add(ctx context.Context, userID int64, symbol string) (string, error) {
	return m.addFn(ctx, userID, symbol)
}

func (m *mockFavoritesService) Remove(ctx context.Context, userID int64, symbol string) error {
	return m.removeFn(ctx, userID, symbol)
}

// withClaims は認証済みユーザーのコンテキストをリクエストに付与する。
func withClaims(req *http.Request, userID int64) *http.Request {
	claims := &model.TokenClaims{UserID: userID, Email: "admin@teste.com"}
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

// withURLParam はchiのURLパラメータをリクエストコンテキストに設定する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestFavoritesHandler_List_ReturnsSymbols(t *testing.T) {
	service := &mockFavoritesService{
		listFn: func(ctx context.Context, userID int64) ([]string, error) {
			if userID != 42 {
				t.Errorf("userID = %d, want 42", userID)
			}
			return []string{"USD", "EUR"}, nil
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/favorites", nil), 42)
	w := httptest.NewRecorder()
	h.ListFavorites(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body []string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 2 || body[0] != "USD" || body[1] != "EUR" {
		t.Errorf("body = %v, want [USD EUR]", body)
	}
}

// 0件の場合nullではなく[]を返すことを検証
func TestFavoritesHandler_List_EmptyReturnsArray(t *testing.T) {
	service := &mockFavoritesService{
		listFn: func(ctx context.Context, userID int64) ([]string, error) {
			return []string{}, nil
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/favorites", nil), 42)
	w := httptest.NewRecorder()
	h.ListFavorites(w, req)

	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestFavoritesHandler_List_WithoutClaims_Returns401(t *testing.T) {
	service := &mockFavoritesService{
		listFn: func(ctx context.Context, userID int64) ([]string, error) {
			t.Error("List should not be called without claims")
			return nil, nil
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	w := httptest.NewRecorder()
	h.ListFavorites(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestFavoritesHandler_Add_Returns201(t *testing.T) {
	service := &mockFavoritesService{
		addFn: func(ctx context.Context, userID int64, symbol string) (string, error) {
			if symbol != "usd" {
				t.Errorf("symbol = %q, want usd", symbol)
			}
			return "USD", nil
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/favorites",
		strings.NewReader(`{"symbol":"usd"}`)), 42)
	w := httptest.NewRecorder()
	h.AddFavorite(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var body addFavoriteResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Symbol != "USD" {
		t.Errorf("symbol = %q, want USD", body.Symbol)
	}
}

func TestFavoritesHandler_Add_EmptySymbol_Returns400(t *testing.T) {
	service := &mockFavoritesService{
		addFn: func(ctx context.Context, userID int64, symbol string) (string, error) {
			return "", model.NewMissingSymbolError()
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/favorites",
		strings.NewReader(`{"symbol":""}`)), 42)
	w := httptest.NewRecorder()
	h.AddFavorite(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeAPIError(t, w); body.Code != model.ErrCodeMissingSymbol {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeMissingSymbol)
	}
}

func TestFavoritesHandler_Add_Duplicate_Returns409(t *testing.T) {
	service := &mockFavoritesService{
		addFn: func(ctx context.Context, userID int64, symbol string) (string, error) {
			return "", model.NewDuplicateFavoriteError("USD")
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/favorites",
		strings.NewReader(`{"symbol":"USD"}`)), 42)
	w := httptest.NewRecorder()
	h.AddFavorite(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if body := decodeAPIError(t, w); body.Code != model.ErrCodeDuplicateFavorite {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeDuplicateFavorite)
	}
}

// 同一シンボルの並行追加でも片方は201、もう片方は409になることを検証。
// 一意判定はストレージの一意制約が担うため、モックでは先着のみ成功させる。
func TestFavoritesHandler_Add_ConcurrentDuplicate(t *testing.T) {
	var mu sync.Mutex
	created := make(map[string]bool)
	service := &mockFavoritesService{
		addFn: func(ctx context.Context, userID int64, symbol string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if created[symbol] {
				return "", model.NewDuplicateFavoriteError(symbol)
			}
			created[symbol] = true
			return symbol, nil
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	results := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := withClaims(httptest.NewRequest(http.MethodPost, "/api/favorites",
				strings.NewReader(`{"symbol":"USD"}`)), 42)
			w := httptest.NewRecorder()
			h.AddFavorite(w, req)
			results <- w.Code
		}()
	}
	wg.Wait()
	close(results)

	var codes []int
	for code := range results {
		codes = append(codes, code)
	}
	if len(codes) != 2 {
		t.Fatalf("len(codes) = %d, want 2", len(codes))
	}
	ok := (codes[0] == http.StatusCreated && codes[1] == http.StatusConflict) ||
		(codes[0] == http.StatusConflict && codes[1] == http.StatusCreated)
	if !ok {
		t.Errorf("codes = %v, want one 201 and one 409", codes)
	}
}

func TestFavoritesHandler_Remove_Returns200WithMessage(t *testing.T) {
	service := &mockFavoritesService{
		removeFn: func(ctx context.Context, userID int64, symbol string) error {
			if symbol != "USD" {
				t.Errorf("symbol = %q, want USD", symbol)
			}
			return nil
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodDelete, "/api/favorites/USD", nil), 42)
	req = withURLParam(req, "symbol", "USD")
	w := httptest.NewRecorder()
	h.RemoveFavorite(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body messageResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Message == "" {
		t.Error("message should not be empty")
	}
}

func TestFavoritesHandler_Remove_NotFound_Returns404(t *testing.T) {
	service := &mockFavoritesService{
		removeFn: func(ctx context.Context, userID int64, symbol string) error {
			return model.NewFavoriteNotFoundError(symbol)
		},
	}
	h := NewFavoritesHandler(service, metrics.Noop{})

	req := withClaims(httptest.NewRequest(http.MethodDelete, "/api/favorites/XYZ", nil), 42)
	req = withURLParam(req, "symbol", "XYZ")
	w := httptest.NewRecorder()
	h.RemoveFavorite(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if body := decodeAPIError(t, w); body.Code != model.ErrCodeFavoriteNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeFavoriteNotFound)
	}
}
