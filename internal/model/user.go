// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 現行の運用では起動時にシードされる管理者アカウント1件のみが存在する。
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Favorite はユーザーがお気に入り登録した通貨シンボルを表す。
// (UserID, Symbol) の組はデータベースの一意制約により重複しない。
type Favorite struct {
	ID        int64
	UserID    int64
	Symbol    string
	CreatedAt time.Time
}

// TokenClaims は検証済みセッショントークンから取り出した認証情報を表す。
type TokenClaims struct {
	UserID int64
	Email  string
}
