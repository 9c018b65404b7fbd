package usecase

import (
	authdomain "looppilot/internal/auth/domain"
	authdto "looppilot/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication business logic
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)

	// SignState issues the short-lived OAuth state value for userID.
	SignState(userID string) (string, error)
	// VerifyState returns the user id carried by a state value.
	VerifyState(state string) (string, error)
}
