package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/session"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxUsernameLength = 25

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service interface {
	Register(ctx context.Context, email, username, password string) (User, error)
	Login(ctx context.Context, email, username, password string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	RecordMonthOpened(ctx context.Context, email string, month ledger.MonthKey) error
	RecentMonths(ctx context.Context) ([]ledger.MonthKey, error)
}

type ServiceImpl struct {
	records ledger.RecordRepo
	recents RecentMonthsRepo
	clock   utils.Clock
	// recentLimit caps the remembered opened months per user.
	recentLimit int
}

func NewService(records ledger.RecordRepo, recents RecentMonthsRepo, clock utils.Clock, recentLimit int) *ServiceImpl {
	return &ServiceImpl{records: records, recents: recents, clock: clock, recentLimit: recentLimit}
}

// Register creates a new local account. Credentials are stored as given:
// this is a single-user local tracker, not an authentication system.
func (s *ServiceImpl) Register(ctx context.Context, email, username, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email == "" || username == "" || password == "" {
		return User{}, fmt.Errorf("%w: all fields are required", ErrUserDataInvalid)
	}
	if !emailPattern.MatchString(email) {
		return User{}, fmt.Errorf("%w: invalid email", ErrUserDataInvalid)
	}
	if len(username) > maxUsernameLength {
		return User{}, fmt.Errorf("%w: username too long", ErrUserDataInvalid)
	}
	if !validPassword(password) {
		return User{}, fmt.Errorf("%w: password must be 8+ chars with upper, lower, digit and special", ErrUserDataInvalid)
	}

	uid := uuid.NewString()
	if err := s.records.Create(ctx, email, uid, ledger.NewUserRecord(username, password)); err != nil {
		if err == ledger.ErrRecordExists {
			return User{}, ErrUserExists
		}
		return User{}, err
	}
	log.Infof("registered user %s", email)
	return User{Uid: uid, Email: email, Username: username, CreatedAt: s.clock.Now()}, nil
}

// Login checks the given credentials against the stored record. Both the
// password and the username must match.
func (s *ServiceImpl) Login(ctx context.Context, email, username, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	record, err := s.records.Load(ctx, email)
	if err != nil {
		if err == ledger.ErrRecordNotFound {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	if record.Password != password {
		return User{}, fmt.Errorf("%w: password incorrect", ErrInvalidCredentials)
	}
	if record.Username != username {
		return User{}, fmt.Errorf("%w: username does not match", ErrInvalidCredentials)
	}
	return s.GetUserByEmail(ctx, email)
}

func (s *ServiceImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	record, err := s.records.Load(ctx, email)
	if err != nil {
		if err == ledger.ErrRecordNotFound {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	meta, err := s.records.Meta(ctx, email)
	if err != nil {
		if err == ledger.ErrRecordNotFound {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return User{Uid: meta.Uid, Email: email, Username: record.Username, CreatedAt: meta.CreatedAt}, nil
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.GetUserByEmail(ctx, email)
}

// RecordMonthOpened remembers that the user opened the given month. Already
// remembered months keep their original position; the history is capped at
// the configured limit, dropping the oldest entries.
func (s *ServiceImpl) RecordMonthOpened(ctx context.Context, email string, month ledger.MonthKey) error {
	if err := s.recents.Add(ctx, email, month, s.clock.Now()); err != nil {
		return err
	}
	return s.recents.Trim(ctx, email, s.recentLimit)
}

// RecentMonths lists the remembered opened months, oldest first.
func (s *ServiceImpl) RecentMonths(ctx context.Context) ([]ledger.MonthKey, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.recents.List(ctx, email)
}

func validPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, c := range p {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, c):
			special = true
		}
	}
	return lower && upper && digit && special
}
