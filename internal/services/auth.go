package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrCaptchaRejected    = errors.New("captcha verification failed")
	ErrInvalidRole        = errors.New("role must be teacher, student or admin")
)

// TokenClaims is what a parsed access token carries.
type TokenClaims struct {
	UserID uuid.UUID
	Role   string
}

type AuthService interface {
	Register(ctx context.Context, username, password, role, captchaID, captchaCode string) (*types.User, error)
	Login(ctx context.Context, username, password string) (string, *types.User, error)
	ParseToken(tokenString string) (*TokenClaims, error)
	AccessTTL() time.Duration
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	captcha   CaptchaService
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	captcha CaptchaService,
	jwtSecret string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		userRepo:  userRepo,
		captcha:   captcha,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
	}
}

func (s *authService) Register(ctx context.Context, username, password, role, captchaID, captchaCode string) (*types.User, error) {
	switch role {
	case "":
		role = types.RoleTeacher
	case types.RoleTeacher, types.RoleStudent, types.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	ok, err := s.captcha.Verify(ctx, captchaID, captchaCode)
	if err != nil {
		return nil, fmt.Errorf("verify captcha: %w", err)
	}
	if !ok {
		return nil, ErrCaptchaRejected
	}

	exists, err := s.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{Username: username, Password: string(hash), Role: role}
	if _, err := s.userRepo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("User registered", "user_id", user.ID, "username", username, "role", role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *types.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("User logged in", "user_id", user.ID)
	return signed, user, nil
}

func (s *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject")
	}
	role, _ := claims["role"].(string)
	return &TokenClaims{UserID: id, Role: role}, nil
}

func (s *authService) AccessTTL() time.Duration {
	return s.accessTTL
}
