package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/roomhive/booking-backend/internal/models"
	"github.com/roomhive/booking-backend/libs/auth/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID is filled in on success.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by normalized email.
	//
	// If user with such email does not exist, models.ErrUserNotFound will be
	// returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be
	// returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together
	// with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method Save persists the mutable fields of an existing user.
	//
	// If no row matches the user's ID, models.ErrUserNotFound will be returned.
	Save(ctx context.Context, user *models.User) error
}

// MailDispatcher sends notification emails. Dispatch is a synchronous
// fire-and-report call: a failure surfaces to the caller but never rolls back
// state that was already persisted.
type MailDispatcher interface {
	Send(to, subject, htmlBody string) error
}

// VerificationStatus is the outcome of a verification link visit
type VerificationStatus int

const (
	// VerificationSuccess means the user transitioned to Verified
	VerificationSuccess VerificationStatus = iota + 1
	// VerificationAlreadyDone means the user was Verified before the visit; nothing changed
	VerificationAlreadyDone
	// VerificationLinkResent means the link had expired and a fresh one was emailed;
	// the user stays Unverified
	VerificationLinkResent
)

// authService implements registration, email verification and login
type authService struct {
	userRepo   UserRepository
	tokens     *service.TokenService
	mailer     MailDispatcher
	logger     *zap.Logger
	baseURL    string
	verifyTTL  time.Duration
	reissueTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	tokens *service.TokenService,
	mailer MailDispatcher,
	logger *zap.Logger,
	baseURL string,
	verifyTTL time.Duration,
	reissueTTL time.Duration,
) *authService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger,
		baseURL:    baseURL,
		verifyTTL:  verifyTTL,
		reissueTTL: reissueTTL,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// fullNameRegex validates full name: letters and spaces only
var fullNameRegex = regexp.MustCompile(`^[A-Za-z ]+$`)

// passwordRegex validates password: at least 8 chars, uppercase, lowercase, number, special: !@#$%^&*
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[0-9]`),
	regexp.MustCompile(`[!@#$%^&*]`),
}

// Register creates a new Unverified user and dispatches a verification email
// with a short-lived signed link. The user stays in the database even when
// the dispatch fails; that failure is reported as ErrDispatchFailed.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	fullName, email, err := s.checkRegisterFields(ctx, req)
	if err != nil {
		return nil, err
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create user as Unverified
	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(passwordHash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The uniqueness pre-check can race with a concurrent registration
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Issue the verification token and email the link
	if err := s.sendVerificationLink(user, s.verifyTTL); err != nil {
		// Known gap: the user is already persisted and stays Unverified,
		// there is no retry or compensating rollback
		s.logger.Error("verification email dispatch failed after registration",
			zap.Int("user_id", user.ID),
			zap.Error(err),
		)
		return user, ErrDispatchFailed
	}

	return user, nil
}

// VerifyEmail drives a user from Unverified to Verified given a verification
// link token. An expired token triggers a reissue with a shorter ttl; an
// already verified user makes every path a no-op.
func (s *authService) VerifyEmail(ctx context.Context, tokenString string) (VerificationStatus, error) {
	claims, err := s.tokens.VerifyToken(tokenString)

	switch {
	case err == nil:
		if claims.TokenType != service.TokenTypeVerify {
			return 0, ErrInvalidToken
		}

		user, err := s.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			return 0, err
		}
		if user.IsVerified {
			return VerificationAlreadyDone, nil
		}

		user.IsVerified = true
		if err := s.userRepo.Save(ctx, user); err != nil {
			return 0, err
		}
		return VerificationSuccess, nil

	case errors.Is(err, service.ErrTokenExpired):
		// The payload of an expired token is only trusted as a lookup key for
		// the reissue, never as authentication. Only verification tokens enter
		// the reissue path; an expired session token stays invalid here.
		decoded, err := s.tokens.DecodeUnverified(tokenString)
		if err != nil || decoded.TokenType != service.TokenTypeVerify {
			return 0, ErrInvalidToken
		}

		user, err := s.userRepo.GetByID(ctx, decoded.UserID)
		if err != nil {
			return 0, err
		}
		if user.IsVerified {
			return VerificationAlreadyDone, nil
		}

		if err := s.sendVerificationLink(user, s.reissueTTL); err != nil {
			s.logger.Error("failed to resend verification email",
				zap.Int("user_id", user.ID),
				zap.Error(err),
			)
			return 0, ErrDispatchFailed
		}
		return VerificationLinkResent, nil

	default:
		return 0, ErrInvalidToken
	}
}

// Login authenticates credentials and issues a session token snapshotting the
// user's role flags. Role changes after login do not refresh live sessions.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return "", nil, ErrMissingCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	// Constant-time comparison against the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSessionToken(user.ID, user.IsAdmin, user.IsSuperAdmin)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, user, nil
}

// FederatedLogin finds or creates a user from an external identity provider's
// profile and issues an ordinary session token. The provider's output is
// treated as a registration source; a freshly created federated user carries
// no password hash and the provider's email-verified flag.
func (s *authService) FederatedLogin(ctx context.Context, profile *models.FederatedProfile) (string, *models.User, error) {
	email := strings.TrimSpace(strings.ToLower(profile.Email))
	if email == "" {
		return "", nil, fmt.Errorf("%w: provider profile has no email", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		user = &models.User{
			FullName:   strings.TrimSpace(profile.FullName),
			Email:      email,
			IsVerified: profile.EmailVerified,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.IssueSessionToken(user.ID, user.IsAdmin, user.IsSuperAdmin)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, user, nil
}

// sendVerificationLink issues a verification token with the given ttl and
// emails the resulting link to the user
func (s *authService) sendVerificationLink(user *models.User, ttl time.Duration) error {
	token, err := s.tokens.IssueVerificationToken(user.ID, ttl)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	link := fmt.Sprintf("%s/verify-user/%s", s.baseURL, token)
	return s.mailer.Send(user.Email, "Verify your email", verificationEmailBody(link, user.FirstName()))
}

// checkRegisterFields validates and normalizes the registration fields
func (s *authService) checkRegisterFields(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if len(fullName) < 3 || !fullNameRegex.MatchString(fullName) {
		return "", "", fmt.Errorf("%w: full name must be at least 3 letters and contain only letters and spaces", ErrValidation)
	}

	if !emailRegex.MatchString(email) {
		return "", "", fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	for _, regex := range passwordRegex {
		if !regex.MatchString(req.Password) {
			return "", "", fmt.Errorf("%w: password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character (!@#$%%^&*)", ErrValidation)
		}
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", "", ErrEmailTaken
	}

	return fullName, email, nil
}
