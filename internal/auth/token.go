// Package auth は資格情報の検証と署名付きセッショントークンの発行・検証を提供する。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/kawase/internal/model"
)

var (
	// ErrTokenExpired はトークンの有効期限切れを表す。
	// 署名不正とは区別できる失敗種別として公開する。
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid は署名不一致や形式不正のトークンを表す。
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims はセッショントークンに埋め込む認証情報。
// 標準クレームに加えてユーザーIDとメールアドレスを保持する。
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// TokenService は署名付きセッショントークンの発行と検証を行う。
// サーバー側にセッション状態は持たず、有効性は署名と有効期限のみで決まる。
// 署名シークレットをローテーションすると発行済みトークンはすべて無効になる。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService はTokenServiceを生成する。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue はユーザーIDとメールアドレスを紐付けた時限付きトークンを発行する。
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、埋め込まれた認証情報を返す。
// 期限切れはErrTokenExpired、それ以外の検証失敗はErrTokenInvalidを返す。
func (s *TokenService) Verify(tokenString string) (*model.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &model.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}
