package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/pkg/apierror"
	"devcamp-api/pkg/token"
)

type memUserRepo struct {
	users  map[string]*entity.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.users {
		if e.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	e, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.Name = u.Name
	e.Email = u.Email
	e.Role = u.Role
	e.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) SaveResetToken(_ context.Context, id, tokenHash string, expire time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken = &tokenHash
	u.ResetPasswordExpire = &expire
	return nil
}

func (r *memUserRepo) ClearResetToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return nil
}

func (r *memUserRepo) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeMailer struct {
	sent []string // recipients, in order
	text string
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, to, _, text, _ string) error {
	if m.fail {
		return errors.New("mailgun unavailable")
	}
	m.sent = append(m.sent, to)
	m.text = text
	return nil
}

type fakePublisher struct {
	jobs []any
	fail bool
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.fail {
		return errors.New("amqp channel closed")
	}
	p.jobs = append(p.jobs, body)
	return nil
}

func newTestAuthService(repo repository.UserRepository, mail EmailSender, jobs JobPublisher) *AuthService {
	return NewAuthService(
		repo,
		token.NewManager("test-secret", 30),
		mail,
		jobs,
		nil,
		"DevCamp",
		"https://api.devcamp.test/api/v1/auth/resetpassword",
		10*time.Minute,
	)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	pub := &fakePublisher{}
	svc := newTestAuthService(repo, &fakeMailer{}, pub)

	u, sess, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role, "role defaults to user")
	assert.NotEmpty(t, sess.Token)
	assert.Len(t, pub.jobs, 1, "welcome email queued")

	got, _, err := svc.Login(ctx, "john@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	uid, err := svc.Tokens.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
}

func TestRegisterSurvivesQueueFailure(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newMemUserRepo(), &fakeMailer{}, &fakePublisher{fail: true})

	_, sess, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", entity.RolePublisher)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestLoginErrors(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := newTestAuthService(repo, &fakeMailer{}, &fakePublisher{})
	_, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "", "")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Please provide email and password", apiErr.Message)

	// Unknown email and wrong password must be indistinguishable.
	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "123456")
	_, _, errWrongPwd := svc.Login(ctx, "john@example.com", "654321")
	for _, err := range []error{errUnknown, errWrongPwd} {
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
	}
}

func TestUpdateDetails(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := newTestAuthService(repo, &fakeMailer{}, &fakePublisher{})
	u, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)

	got, err := svc.UpdateDetails(ctx, u.ID, "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)

	// Empty fields leave current values untouched.
	got, err = svc.UpdateDetails(ctx, u.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := newTestAuthService(repo, &fakeMailer{}, &fakePublisher{})
	u, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, u.ID, "wrong", "newpassword")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Password is incorrect", apiErr.Message)

	sess, err := svc.UpdatePassword(ctx, u.ID, "123456", "newpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, _, err = svc.Login(ctx, "john@example.com", "123456")
	require.Error(t, err, "old password no longer works")
	_, _, err = svc.Login(ctx, "john@example.com", "newpassword")
	require.NoError(t, err)
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	mail := &fakeMailer{}
	svc := newTestAuthService(repo, mail, &fakePublisher{})
	u, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "nobody@example.com")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "There is no user with that email", apiErr.Message)

	require.NoError(t, svc.ForgotPassword(ctx, "john@example.com"))
	assert.Equal(t, []string{"john@example.com"}, mail.sent)
	assert.Contains(t, mail.text, "https://api.devcamp.test/api/v1/auth/resetpassword/")

	stored := repo.users[u.ID]
	require.NotNil(t, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpire)
	assert.NotContains(t, mail.text, *stored.ResetPasswordToken, "email carries the plaintext, not the stored hash")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.ResetPasswordExpire, time.Minute)
}

func TestForgotPasswordMailFailureClearsToken(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := newTestAuthService(repo, &fakeMailer{fail: true}, &fakePublisher{})
	u, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "john@example.com")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "Email could not be sent", apiErr.Message)

	stored := repo.users[u.ID]
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	mail := &fakeMailer{}
	svc := newTestAuthService(repo, mail, &fakePublisher{})
	u, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "john@example.com"))

	// Pull the plaintext token out of the captured email body.
	const prefix = "https://api.devcamp.test/api/v1/auth/resetpassword/"
	i := strings.Index(mail.text, prefix) + len(prefix)
	plain := mail.text[i : i+40]

	_, _, err = svc.ResetPassword(ctx, "deadbeef", "newpassword")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "InvalidToken", apiErr.Message)

	got, sess, err := svc.ResetPassword(ctx, plain, "newpassword")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, sess.Token)

	stored := repo.users[u.ID]
	assert.Nil(t, stored.ResetPasswordToken, "token is single use")
	assert.Nil(t, stored.ResetPasswordExpire)

	_, _, err = svc.ResetPassword(ctx, plain, "again")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "InvalidToken", apiErr.Message)

	_, _, err = svc.Login(ctx, "john@example.com", "newpassword")
	require.NoError(t, err)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := newTestAuthService(repo, &fakeMailer{}, &fakePublisher{})
	u, _, err := svc.Register(ctx, "John Doe", "john@example.com", "123456", "")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, repo.SaveResetToken(ctx, u.ID, token.HashResetToken("stale-token"), expired))

	_, _, err = svc.ResetPassword(ctx, "stale-token", "newpassword")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "InvalidToken", apiErr.Message)
}
