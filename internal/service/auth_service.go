package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/dto"
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/pkg/logger"
	"github.com/momonga11/notenext-server/internal/pkg/mailer"
	"github.com/momonga11/notenext-server/internal/repository/specification"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 1 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = 1 * time.Hour

	refreshKeyPrefix = "refresh:"
	resetKeyPrefix   = "pwreset:"
)

type IAuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.UserResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.SignInResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	SignOut(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	attachments  IAttachmentStore
	rdb          *redis.Client
	logger       logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	attachments IAttachmentStore,
	rdb *redis.Client,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		attachments:  attachments,
		rdb:          rdb,
		logger:       log,
	}
}

func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewValidation("email has already been taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		CreatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "User registered", map[string]interface{}{"user_id": user.Id})
	return s.toUserResponse(ctx, &user), nil
}

func (s *authService) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.SignInResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	accessToken, err := s.signAccessToken(user.Id)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issueRefreshToken(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.SignInResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *s.toUserResponse(ctx, user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	key := refreshKeyPrefix + hashToken(req.RefreshToken)
	rawId, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	}
	if err != nil {
		return nil, err
	}
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	}

	// Rotate: the presented token dies with this exchange.
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return nil, err
	}

	accessToken, err := s.signAccessToken(userId)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issueRefreshToken(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.rdb.Del(ctx, refreshKeyPrefix+hashToken(refreshToken)).Err()
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		// Do not reveal whether the address is registered.
		return nil
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	key := resetKeyPrefix + hashToken(token)
	if err := s.rdb.Set(ctx, key, user.Id.String(), resetTokenTTL).Err(); err != nil {
		return err
	}

	if err := s.emailService.SendResetToken(user.Email, token); err != nil {
		s.logger.Error("AuthService", "Failed to send reset mail", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	key := resetKeyPrefix + hashToken(req.Token)
	rawId, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return apperror.NewValidation("reset token is invalid or expired")
	}
	if err != nil {
		return err
	}
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return apperror.NewValidation("reset token is invalid or expired")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewValidation("reset token is invalid or expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	return s.rdb.Del(ctx, key).Err()
}

func (s *authService) signAccessToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func (s *authService) issueRefreshToken(ctx context.Context, userId uuid.UUID) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	key := refreshKeyPrefix + hashToken(token)
	if err := s.rdb.Set(ctx, key, userId.String(), refreshTokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *authService) toUserResponse(ctx context.Context, user *entity.User) *dto.UserResponse {
	avatar := ""
	if avatars, err := s.attachments.List(ctx, entity.OwnerUser, user.Id); err == nil && len(avatars) > 0 {
		avatar = s.attachments.ResolveURL(avatars[len(avatars)-1])
	}
	return &dto.UserResponse{
		Id:     user.Id,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: avatar,
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Only the hash of a token touches redis, so a dump of the store cannot be
// replayed as live credentials.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
