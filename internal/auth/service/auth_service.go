package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/qa-llm/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/validation"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/qa-llm/backend/internal/user/repository"
)

const TokenTypeBearer = "bearer"

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      *TokenIssuer
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	tokens *TokenIssuer,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		clock:       clk,
		log:         log,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,max=254,email"`
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput.Identifier is an email when it contains '@', otherwise a username.
type LoginInput struct {
	Identifier string `json:"email" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=72"`
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	input.Email = userdomain.NormalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validation.Struct(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return userdomain.User{}, commonerrors.WithMessage(commonerrors.ErrValidation, "password must be at most 72 bytes")
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user, err := s.repo.Create(ctx, userdomain.User{
		ID:           userdomain.ID(id),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailAlreadyExists):
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_email_exists",
			}).Warn("register failed: email already registered")
			return userdomain.User{}, commonerrors.ErrEmailAlreadyExists
		case errors.Is(err, userrepo.ErrUsernameAlreadyExists):
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: username already exists")
			return userdomain.User{}, commonerrors.ErrUsernameAlreadyExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	incrementUsersRegistered()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	input.Identifier = strings.TrimSpace(input.Identifier)

	s.log.WithFields(ctx, logger.Fields{
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validation.Struct(input); err != nil {
		recordLogin("invalid_input")
		return LoginResult{}, err
	}

	user, err := s.lookup(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			recordLogin("unknown_user")
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_user_not_found",
			}).Warn("login failed: user not found")
			return LoginResult{}, ErrInvalidCredentials
		}
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if !commoncrypto.Verify(s.hasher, user.PasswordHash, input.Password) {
		recordLogin("invalid_password")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		recordLogin("inactive")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_inactive_user",
		}).Warn("login failed: inactive user")
		return LoginResult{}, ErrInactiveUser
	}

	token, expiresAt, err := s.tokens.IssueAccessToken(user, s.clock.Now())
	if err != nil {
		recordLogin("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	recordLogin("success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (userdomain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.repo.FindByEmail(ctx, identifier)
	}
	return s.repo.FindByUsername(ctx, identifier)
}
