// Package favorites はユーザーごとのお気に入り通貨の管理を提供する。
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/kawase/internal/model"
	"github.com/hitoshi/kawase/internal/repository"
)

// Service はお気に入り通貨の一覧・追加・削除を提供する。
type Service struct {
	repo   repository.FavoriteRepository
	logger *slog.Logger
}

// NewService はService の新しいインスタンスを生成する。
func NewService(repo repository.FavoriteRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List はユーザーのお気に入りシンボル一覧を登録順で返す。
// お気に入りが1件もない場合も空スライスを返す（nilは返さない）。
func (s *Service) List(ctx context.Context, userID int64) ([]string, error) {
	symbols, err := s.repo.ListSymbolsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}

// Add はユーザーのお気に入りにシンボルを追加する。
// シンボルは大文字に正規化して保存する。
// 空のシンボルはMISSING_SYMBOL、登録済みのシンボルはDUPLICATE_FAVORITEエラーとなる。
func (s *Service) Add(ctx context.Context, userID int64, symbol string) (string, error) {
	normalized, err := normalizeSymbol(symbol)
	if err != nil {
		return "", err
	}

	if err := s.repo.Create(ctx, userID, normalized); err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return "", model.NewDuplicateFavoriteError(normalized)
		}
		return "", fmt.Errorf("お気に入りの追加に失敗しました: %w", err)
	}

	s.logger.Info("favorite added",
		slog.Int64("user_id", userID),
		slog.String("symbol", normalized),
	)
	return normalized, nil
}

// Remove はユーザーのお気に入りからシンボルを削除する。
// 対象が存在しない場合はFAVORITE_NOT_FOUNDエラーとなる。
func (s *Service) Remove(ctx context.Context, userID int64, symbol string) error {
	normalized, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, normalized); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return model.NewFavoriteNotFoundError(normalized)
		}
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}

	s.logger.Info("favorite removed",
		slog.Int64("user_id", userID),
		slog.String("symbol", normalized),
	)
	return nil
}

// normalizeSymbol はシンボルを検証し大文字に正規化する。
// 空白のみのシンボルは未指定として扱う。
func normalizeSymbol(symbol string) (string, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return "", model.NewMissingSymbolError()
	}
	return strings.ToUpper(trimmed), nil
}
