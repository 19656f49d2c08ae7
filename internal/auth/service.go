// Package auth は資格情報の検証と署名付きセッショントークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/kawase/internal/model"
	"github.com/hitoshi/kawase/internal/repository"
)

// Service は認証に関するビジネスロジックを提供する。
// ユーザーの真実の情報源はUserRepositoryのみで、プロセス内に複製は持たない。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens *TokenService) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login は資格情報を検証し、セッショントークンを発行する。
// アカウント列挙を防ぐため、メールアドレス不明とパスワード不一致は
// 同一のINVALID_CREDENTIALSエラーとして返す。
// レスポンスにパスワードやハッシュは一切含めない。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		return "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// EnsureDefaultUser は既定の管理者アカウントを冪等にシードする。
// アカウントが既に存在する場合は何もせず成功し、既存ハッシュは上書きしない。
// serveモードの起動時に1回呼ばれる。
func (s *Service) EnsureDefaultUser(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	if err := s.userRepo.EnsureUser(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("failed to seed default user: %w", err)
	}

	slog.Info("default user ensured", slog.String("email", email))
	return nil
}
