package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saylekxd/nightApp/internal/model"
)

// AuthService signs members up and in, and issues/parses session tokens.
// Tokens carry the member id only; role decisions are always made from a
// fresh members row, so a stale or tampered token can't grant admin.
type AuthService struct {
	members MemberRepo
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewAuthService creates a new AuthService with the given repository,
// signing secret and token lifetime.
func NewAuthService(members MemberRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		members: members,
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SignUp registers a member with a zero point balance and returns a
// session token. Returns ErrUsernameTaken on a duplicate username.
func (s *AuthService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &model.Member{
		ID:           uuid.New(),
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
	}
	if err := s.members.Insert(ctx, member); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}

	return s.respond(member)
}

// SignIn authenticates a member by username and password.
// Returns ErrInvalidCredentials for both unknown usernames and wrong
// passwords, without distinguishing the two.
func (s *AuthService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	member, err := s.members.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if member == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(member)
}

func (s *AuthService) respond(member *model.Member) (*model.AuthResponse, error) {
	tok, err := s.issueToken(member)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthResponse{Token: tok, Member: member}, nil
}

func (s *AuthService) issueToken(member *model.Member) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   member.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies a session token and returns the member id it was
// issued for. Any verification failure maps to ErrNotAuthenticated.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrNotAuthenticated
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrNotAuthenticated
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	return id, nil
}
