package rates

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/hitoshi/kawase/internal/model"
)

// RateFetcher は為替レート取得のインターフェース。
// テストではモック実装に差し替える。
type RateFetcher interface {
	FetchLive(ctx context.Context, source string, currencies []string) (map[string]float64, error)
}

// Service は為替レートの取得と通貨換算を提供する。
type Service struct {
	fetcher RateFetcher
	logger  *slog.Logger
}

// NewService はService の新しいインスタンスを生成する。
func NewService(fetcher RateFetcher, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Convert はsymbolsの各通貨についてamountをtoに換算した結果を返す。
// 外部APIのレートは「1 to あたりのsymbol数」を表すため、換算値はamount/rateとなる。
// 結果は小数第2位に丸め、symbolsの指定順で返す。
// いずれかの通貨のレートが取得できない場合は全体を失敗とする（部分結果は返さない）。
func (s *Service) Convert(ctx context.Context, symbols []string, to string, amount float64) ([]model.Conversion, error) {
	quotes, err := s.fetcher.FetchLive(ctx, to, symbols)
	if err != nil {
		return nil, err
	}

	// ペアキーの対応表を構築する。キーは基準通貨+対象通貨（末尾3文字）の連結。
	rateBySymbol := make(map[string]float64, len(quotes))
	for pair, rate := range quotes {
		symbol, err := parsePairSymbol(pair, to)
		if err != nil {
			s.logger.Error("為替レートAPIのペアキーが不正です",
				slog.String("pair", pair),
				slog.String("source", to),
			)
			return nil, err
		}
		rateBySymbol[symbol] = rate
	}

	conversions := make([]model.Conversion, 0, len(symbols))
	for _, symbol := range symbols {
		rate, ok := rateBySymbol[symbol]
		if !ok {
			return nil, fmt.Errorf("通貨 %s のレートが取得できませんでした", symbol)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("通貨 %s のレートが不正です: %v", symbol, rate)
		}
		conversions = append(conversions, model.Conversion{
			Symbol: symbol,
			To:     to,
			Rate:   roundTo2(amount / rate),
		})
	}

	return conversions, nil
}

// parsePairSymbol はAPIのペアキーから対象通貨コードを取り出す。
// ペアキーは基準通貨コードに3文字の通貨コードを連結した形式でなければならない。
func parsePairSymbol(pair, source string) (string, error) {
	if !strings.HasPrefix(pair, source) {
		return "", fmt.Errorf("ペアキー %q が基準通貨 %s で始まっていません", pair, source)
	}
	symbol := pair[len(source):]
	if len(symbol) != 3 || !isUpperAlpha(symbol) {
		return "", fmt.Errorf("ペアキー %q の通貨コード部が不正です", pair)
	}
	return symbol, nil
}

func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// roundTo2 は小数第2位に丸める。
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
