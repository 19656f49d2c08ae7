// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/kawase/internal/model"
)

// ErrDuplicateFavorite は(user_id, symbol)の一意制約違反を表す。
// ストレージ固有のエラーはリポジトリ層でこのエラーに翻訳する。
var ErrDuplicateFavorite = errors.New("favorite already exists")

// ErrFavoriteNotFound は削除対象のお気に入りが存在しないことを表す。
var ErrFavoriteNotFound = errors.New("favorite not found")

// UserRepository はユーザーデータの永続化インターフェース。
// 実行時に公開する操作はメールアドレスによる検索のみで、
// 作成は起動時シードのEnsureUserに限定する。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// EnsureUser はユーザーを冪等に作成する。
	// 同一メールアドレスのユーザーが既に存在する場合は何もせず成功する。
	EnsureUser(ctx context.Context, email, passwordHash string) error
}

// FavoriteRepository はお気に入りデータの永続化インターフェース。
type FavoriteRepository interface {
	// ListSymbolsByUserID はユーザーのお気に入りシンボル一覧を登録順で返す。
	ListSymbolsByUserID(ctx context.Context, userID int64) ([]string, error)

	// Create はお気に入りを作成する。
	// 一意制約違反の場合はErrDuplicateFavoriteを返す。
	Create(ctx context.Context, userID int64, symbol string) error

	// Delete はお気に入りを削除する。
	// 対象が存在しない場合はErrFavoriteNotFoundを返す。
	Delete(ctx context.Context, userID int64, symbol string) error
}
