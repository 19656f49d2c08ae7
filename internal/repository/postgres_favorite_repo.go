package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolationCode はPostgreSQLのunique_violationエラーコード。
const uniqueViolationCode = "23505"

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// ListSymbolsByUserID はユーザーのお気に入りシンボル一覧を登録順で返す。
func (r *PostgresFavoriteRepo) ListSymbolsByUserID(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT symbol FROM favorites WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("お気に入り行の読み取りに失敗しました: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("お気に入り一覧の走査に失敗しました: %w", err)
	}
	return symbols, nil
}

// Create はお気に入りを作成する。
// (user_id, symbol)の一意制約違反はErrDuplicateFavoriteに翻訳する。
// 同一ペアの同時INSERTは制約によりちょうど1件だけ成功する。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, userID int64, symbol string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, symbol) VALUES ($1, $2)`,
		userID, symbol,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("お気に入りの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete はお気に入りを削除する。
// 対象が存在しない場合はErrFavoriteNotFoundを返す（暗黙の成功にはしない）。
func (r *PostgresFavoriteRepo) Delete(ctx context.Context, userID int64, symbol string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND symbol = $2`,
		userID, symbol,
	)
	if err != nil {
		return fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// isUniqueViolation はpqドライバのunique_violationエラーかどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
