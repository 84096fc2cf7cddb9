package services

import (
	"database/sql"
	"errors"
	"time"

	"givetzy/internal/domain"
	"givetzy/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUnknownEmail = errors.New("no account for that email")
	ErrBadPassword  = errors.New("wrong password")
)

type AuthService struct {
	Users      *repos.UserRepo
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthService) Register(email, password, name, phone, address string) (*domain.User, error) {
	taken, err := s.Users.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:      uuid.NewString(),
		Email:   email,
		Hash:    string(h),
		Name:    name,
		Phone:   phone,
		Address: address,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login keeps unknown-email and wrong-password as distinct outcomes; the
// handler maps them to 404 and 401.
func (s *AuthService) Login(email, password string) (*domain.User, TokenPair, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, TokenPair{}, ErrUnknownEmail
		}
		return nil, TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, TokenPair{}, ErrBadPassword
	}

	pair, err := s.issuePair(u.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	c, err := parseToken(s.Secret, refreshToken)
	if err != nil {
		return "", err
	}
	if c.TokenType != TokenRefresh {
		return "", ErrTokenInvalid
	}
	if _, err := s.Users.ByID(c.UserID); err != nil {
		return "", ErrTokenInvalid
	}
	return signToken(s.Secret, c.UserID, TokenAccess, s.AccessTTL)
}

// Verify validates an access token and re-confirms the user still exists.
func (s *AuthService) Verify(accessToken string) (*domain.User, error) {
	c, err := parseToken(s.Secret, accessToken)
	if err != nil {
		return nil, err
	}
	if c.TokenType != TokenAccess {
		return nil, ErrTokenInvalid
	}
	u, err := s.Users.ByID(c.UserID)
	if err != nil {
		return nil, ErrTokenExpired // deleted account reads as an expired session
	}
	return u, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(userID, current, next string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return ErrBadPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(next), 12)
	if err != nil {
		return err
	}
	hs := string(h)
	return s.Users.Update(userID, repos.UserPatch{Hash: &hs})
}

func (s *AuthService) issuePair(userID string) (TokenPair, error) {
	access, err := signToken(s.Secret, userID, TokenAccess, s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := signToken(s.Secret, userID, TokenRefresh, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
