package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/apierror"
	"devcamp-api/pkg/helpers"
	"devcamp-api/pkg/mailer"
	tpl "devcamp-api/pkg/mailer/templates"
	"devcamp-api/pkg/token"
)

// EmailSender delivers a single email synchronously. Failures surface to the
// caller; the forgot-password flow depends on that.
type EmailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// JobPublisher enqueues a background job, fire-and-forget.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates registration, login and the password flows on top
// of the user repository and the token manager.
type AuthService struct {
	Users  repository.UserRepository
	Tokens *token.Manager
	Mail   EmailSender
	Jobs   JobPublisher
	Logger *logrus.Logger

	AppName      string
	ResetURLBase string // e.g. https://api.example.com/api/v1/auth/resetpassword
	ResetTTL     time.Duration
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, mail EmailSender, jobs JobPublisher, logger *logrus.Logger, appName, resetURLBase string, resetTTL time.Duration) *AuthService {
	return &AuthService{
		Users:        users,
		Tokens:       tokens,
		Mail:         mail,
		Jobs:         jobs,
		Logger:       logger,
		AppName:      appName,
		ResetURLBase: resetURLBase,
		ResetTTL:     resetTTL,
	}
}

// Session is an issued session token with its expiry, for the cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) issueSession(userID string) (Session, error) {
	t, exp, err := s.Tokens.Issue(userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("issue session token failed")
		}
		return Session{}, err
	}
	return Session{Token: t, ExpiresAt: exp}, nil
}

// Register creates a user and issues a session. A duplicate email surfaces as
// a unique-violation error for the normalizer to translate. The welcome email
// is queued best effort and never fails the registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role entity.Role) (*entity.User, Session, error) {
	if role == "" {
		role = entity.RoleUser
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, Session{}, err
	}
	u := &entity.User{Name: name, Email: email, Role: role, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, Session{}, err
	}

	if s.Jobs != nil {
		if body, rerr := tpl.WelcomeBody(u.Name, s.AppName, string(u.Role)); rerr == nil {
			job := mailer.EmailJob{To: u.Email, Subject: "Welcome to " + s.AppName, Text: body}
			if perr := s.Jobs.PublishJSON(ctx, job); perr != nil && s.Logger != nil {
				s.Logger.WithError(perr).WithField("email", u.Email).Warn("enqueue welcome email failed")
			}
		}
	}

	sess, err := s.issueSession(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

// Login checks credentials and issues a session. Unknown email and wrong
// password return the identical error so neither case can be told apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Session, error) {
	if email == "" || password == "" {
		return nil, Session{}, apierror.BadRequest("Please provide email and password")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, Session{}, apierror.Unauthorized("Invalid credentials")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, Session{}, apierror.Unauthorized("Invalid credentials")
	}
	sess, err := s.issueSession(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

// UpdateDetails mutates name and email only; password and role never change
// through this path.
func (s *AuthService) UpdateDetails(ctx context.Context, userID, name, email string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword verifies the current password, re-hashes the new one and
// issues a fresh session. The previous token stays structurally valid until
// its natural expiry; there is no revocation list.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, newPassword string) (Session, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return Session{}, apierror.Unauthorized("Password is incorrect")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return Session{}, err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return Session{}, err
	}
	return s.issueSession(u.ID)
}

// ForgotPassword stores the hashed reset token and emails the plaintext one.
// If the email cannot be sent the reset fields are cleared again so the user
// is not left holding a live token they never received.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound("There is no user with that email")
		}
		return err
	}

	rt, err := token.NewResetToken(s.ResetTTL)
	if err != nil {
		return err
	}
	if err := s.Users.SaveResetToken(ctx, u.ID, rt.Hash, rt.ExpiresAt); err != nil {
		return err
	}

	resetURL := s.ResetURLBase + "/" + rt.Plain
	body, err := tpl.ResetPasswordBody(resetURL, s.ResetTTL.String())
	if err != nil {
		return err
	}
	if err := s.Mail.Send(ctx, u.Email, "Password reset token", body, ""); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Error("reset email send failed")
		}
		if cerr := s.Users.ClearResetToken(ctx, u.ID); cerr != nil && s.Logger != nil {
			s.Logger.WithError(cerr).WithField("user_id", u.ID).Error("clear reset token failed")
		}
		return apierror.ServerError("Email could not be sent")
	}
	return nil
}

// ResetPassword redeems a plaintext reset token. The incoming value is
// re-hashed and looked up against the persisted hash with an unexpired
// window; a wrong and an expired token are indistinguishable.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) (*entity.User, Session, error) {
	u, err := s.Users.FindByResetToken(ctx, token.HashResetToken(plainToken), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Session{}, apierror.BadRequest("InvalidToken")
		}
		return nil, Session{}, err
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, Session{}, err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, Session{}, err
	}
	if err := s.Users.ClearResetToken(ctx, u.ID); err != nil {
		return nil, Session{}, err
	}
	sess, err := s.issueSession(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}
