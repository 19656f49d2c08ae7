// Package rates は外部為替レートAPIからのレート取得と通貨換算を提供する。
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/kawase/internal/metrics"
)

// Client はexchangerate.host互換の為替レートAPIクライアント。
// /liveエンドポイントで基準通貨に対する複数通貨のレートを一括取得する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
	baseURL    string // テスト用にベースURLを差し替え可能
	accessKey  string
}

// NewClient はClient の新しいインスタンスを生成する。
// baseURLが空の場合はhttps://api.exchangerate.hostを使用する。
func NewClient(httpClient *http.Client, logger *slog.Logger, collector metrics.MetricsCollector, baseURL, accessKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.exchangerate.host"
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    collector,
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
	}
}

// liveResponse は/liveエンドポイントのレスポンス。
// quotesのキーは基準通貨コード+対象通貨コードの連結（例: "BRLUSD"）。
type liveResponse struct {
	Success bool               `json:"success"`
	Quotes  map[string]float64 `json:"quotes"`
	Error   *liveError         `json:"error"`
}

// liveError はAPIがsuccess=falseを返した場合のエラー詳細。
type liveError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

// FetchLive は基準通貨sourceに対するcurrenciesのレートを一括取得する。
// 戻り値のマップのキーはAPIのペアキー（source+通貨コード）のまま返す。
// 取得失敗時はエラーを返す（部分的な結果は返さない）。
func (c *Client) FetchLive(ctx context.Context, source string, currencies []string) (map[string]float64, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("取得対象の通貨が指定されていません")
	}

	reqURL, err := url.Parse(c.baseURL + "/live")
	if err != nil {
		return nil, fmt.Errorf("エンドポイントURLのパースに失敗しました: %w", err)
	}

	q := reqURL.Query()
	q.Set("access_key", c.accessKey)
	q.Set("source", source)
	q.Set("currencies", strings.Join(currencies, ","))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordRateFetchLatency(time.Since(start))
	if err != nil {
		c.metrics.RecordRateFetchFailure("transport")
		c.logger.Error("為替レートAPIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("source", source),
			slog.Int("currency_count", len(currencies)),
		)
		return nil, fmt.Errorf("為替レートAPIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordRateFetchFailure("http_status")
		c.logger.Error("為替レートAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("source", source),
		)
		return nil, fmt.Errorf("為替レートAPIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordRateFetchFailure("read_body")
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result liveResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.metrics.RecordRateFetchFailure("parse")
		c.logger.Error("為替レートAPIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	// APIレベルのエラー（認証失敗、不正な通貨コードなど）
	if !result.Success {
		c.metrics.RecordRateFetchFailure("api_error")
		if result.Error != nil {
			c.logger.Error("為替レートAPIがエラーを返しました",
				slog.Int("api_error_code", result.Error.Code),
				slog.String("api_error_info", result.Error.Info),
			)
			return nil, fmt.Errorf("為替レートAPIがエラーを返しました: code=%d info=%s", result.Error.Code, result.Error.Info)
		}
		return nil, fmt.Errorf("為替レートAPIがエラーを返しました")
	}

	if len(result.Quotes) == 0 {
		c.metrics.RecordRateFetchFailure("empty_quotes")
		return nil, fmt.Errorf("為替レートAPIのレスポンスにレートが含まれていません")
	}

	c.metrics.RecordRateFetchSuccess()
	return result.Quotes, nil
}
