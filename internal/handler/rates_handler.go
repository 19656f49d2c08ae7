package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/kawase/internal/model"
)

// RatesServiceInterface はレートハンドラーが必要とするサービスインターフェース。
type RatesServiceInterface interface {
	// Convert は各通貨のamountをtoへ換算した結果を返す。
	Convert(ctx context.Context, symbols []string, to string, amount float64) ([]model.Conversion, error)
}

// RatesHandler は為替レート取得のHTTPハンドラー。
type RatesHandler struct {
	service RatesServiceInterface
}

// NewRatesHandler はRatesHandlerを生成する。
func NewRatesHandler(service RatesServiceInterface) *RatesHandler {
	return &RatesHandler{service: service}
}

// GetRates は為替レートの取得と換算を処理する。
// GET /api/rates?symbols=USD,EUR&to=BRL&amount=100
// amountは省略可能で、省略時は1として扱う。
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// 外部API呼び出しの前に必須パラメータを検証する
	var missing []string
	if q.Get("symbols") == "" {
		missing = append(missing, "symbols")
	}
	if q.Get("to") == "" {
		missing = append(missing, "to")
	}
	if len(missing) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingParamsError(strings.Join(missing, ", ")))
		return
	}

	symbols := parseSymbols(q.Get("symbols"))
	if len(symbols) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingParamsError("symbols"))
		return
	}

	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))

	amount := 1.0
	if raw := q.Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
				Code:     model.ErrCodeInvalidRequest,
				Message:  "amountには正の数値を指定してください。",
				Category: "validation",
				Action:   "amountパラメータの値を確認してください。",
			})
			return
		}
		amount = parsed
	}

	conversions, err := h.service.Convert(r.Context(), symbols, to, amount)
	if err != nil {
		// 上流起因の失敗はすべてRATE_FETCH_FAILEDとして返す
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			slog.Error("rate conversion failed",
				slog.String("error", err.Error()),
				slog.String("to", to),
			)
			err = model.NewRateFetchFailedError()
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversions)
}

// parseSymbols はカンマ区切りの通貨リストをパースし、大文字に正規化する。
// 空要素は除外する。
func parseSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
