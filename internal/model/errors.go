// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, favorites, rates, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenMissing       = "TOKEN_MISSING"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeMissingSymbol      = "MISSING_SYMBOL"
	ErrCodeMissingParams      = "MISSING_PARAMS"
	ErrCodeDuplicateFavorite  = "DUPLICATE_FAVORITE"
	ErrCodeFavoriteNotFound   = "FAVORITE_NOT_FOUND"
	ErrCodeRateFetchFailed    = "RATE_FETCH_FAILED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// アカウント列挙を防ぐため、メールアドレス不明とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewTokenMissingError はトークン未提示エラーを生成する。
func NewTokenMissingError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenMissing,
		Message:  "認証トークンが指定されていません。",
		Category: "auth",
		Action:   "Authorizationヘッダーにベアラートークンを指定してください。",
	}
}

// NewTokenInvalidError はトークン不正エラーを生成する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "認証トークンが無効です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewTokenExpiredError はトークン期限切れエラーを生成する。
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenExpired,
		Message:  "認証トークンの有効期限が切れています。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewMissingSymbolError はシンボル未指定エラーを生成する。
func NewMissingSymbolError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingSymbol,
		Message:  "シンボルが指定されていません。",
		Category: "validation",
		Action:   "通貨コード（例: USD）を指定してください。",
	}
}

// NewMissingParamsError は必須クエリパラメータ未指定エラーを生成する。
func NewMissingParamsError(params string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingParams,
		Message:  fmt.Sprintf("必須パラメータが指定されていません: %s", params),
		Category: "validation",
		Action:   "不足しているパラメータを指定してください。",
	}
}

// NewDuplicateFavoriteError は重複登録エラーを生成する。
func NewDuplicateFavoriteError(symbol string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateFavorite,
		Message:  fmt.Sprintf("このシンボルは既にお気に入りに登録されています: %s", symbol),
		Category: "favorites",
		Action:   "お気に入り一覧を確認してください。",
	}
}

// NewFavoriteNotFoundError はお気に入り未登録エラーを生成する。
func NewFavoriteNotFoundError(symbol string) *APIError {
	return &APIError{
		Code:     ErrCodeFavoriteNotFound,
		Message:  fmt.Sprintf("指定されたシンボルはお気に入りに登録されていません: %s", symbol),
		Category: "favorites",
		Action:   "お気に入り一覧を確認してください。",
	}
}

// NewRateFetchFailedError は上流レートフィードの取得失敗エラーを生成する。
// 失敗理由の詳細はログにのみ記録し、クライアントには渡さない。
func NewRateFetchFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateFetchFailed,
		Message:  "為替レートの取得に失敗しました。",
		Category: "rates",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
