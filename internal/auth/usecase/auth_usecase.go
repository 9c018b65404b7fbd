package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	authdomain "looppilot/internal/auth/domain"
	authdto "looppilot/internal/auth/dto"
	"looppilot/internal/auth/repository"
	"looppilot/pkg/apperr"
	"looppilot/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeState   = "oauth_state"

	stateExpiry = 10 * time.Minute
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		config:   cfg,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		return nil, apperr.Storage("failed to load user", err)
	}

	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	email := normalizeEmail(req.Email)
	existing, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Storage("failed to load user", err)
	}

	if existing != nil {
		return nil, apperr.InvalidInput("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &authdomain.User{
		Email:    email,
		Password: hashedPassword,
		Name:     req.Name,
		PlanTier: authdomain.PlanFree,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, apperr.Storage("failed to create user", err)
	}

	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid refresh token")
	}

	// Check if token exists in repository
	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Storage("failed to load refresh token", err)
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, apperr.Unauthenticated("refresh token expired")
	}

	user, err := u.userRepo.FindByID(claims.userID)
	if err != nil {
		return nil, apperr.Storage("failed to load user", err)
	}

	if user == nil {
		return nil, apperr.Unauthenticated("user not found")
	}

	// Rotate: the presented token is single use.
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperr.Storage("failed to rotate refresh token", err)
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return apperr.Storage("failed to revoke refresh token", err)
	}
	return nil
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	claims, err := u.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid or expired token")
	}

	user, err := u.userRepo.FindByID(claims.userID)
	if err != nil {
		return nil, apperr.Storage("failed to load user", err)
	}

	if user == nil {
		return nil, apperr.Unauthenticated("user not found")
	}

	return user, nil
}

func (u *authUsecase) SignState(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"typ":     tokenTypeState,
		"nonce":   uuid.New().String(),
		"exp":     time.Now().Add(stateExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	return u.sign(claims)
}

func (u *authUsecase) VerifyState(state string) (string, error) {
	claims, err := u.parse(state, tokenTypeState)
	if err != nil {
		return "", apperr.InvalidInput("invalid oauth state")
	}
	return claims.userID, nil
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	// Generate access token
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	// Generate refresh token
	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	// Store refresh token
	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, apperr.Storage("failed to store refresh token", err)
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"typ":     tokenTypeAccess,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	return u.sign(claims)
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"typ":      tokenTypeRefresh,
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}
	return u.sign(claims)
}

func (u *authUsecase) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

type parsedClaims struct {
	userID string
}

// parse verifies signature, expiry and the token type claim.
func (u *authUsecase) parse(tokenString, wantType string) (*parsedClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, errors.New("unexpected token type")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid token claims")
	}

	return &parsedClaims{userID: userID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
