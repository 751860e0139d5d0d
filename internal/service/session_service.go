package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coldspec/internal/models"
	"coldspec/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL   = 12 * time.Hour
	defaultSigningKey = "coldspec-dev-key"
)

// ErrInvalidToken covers bad signatures, expiry and sessions that were logged out.
var ErrInvalidToken = errors.New("invalid token")

// SessionService turns a badge into a stored session plus a signed token.
type SessionService struct {
	users      repository.UserDirectory
	sessions   repository.SessionRepo
	activity   *recorder
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionService(users repository.UserDirectory, sessions repository.SessionRepo, activity *recorder, signingKey string, ttl time.Duration) *SessionService {
	if signingKey == "" {
		signingKey = defaultSigningKey
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &SessionService{
		users:      users,
		sessions:   sessions,
		activity:   activity,
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Claims defines JWT claims. The registered ID (jti) is the session id.
type Claims struct {
	jwt.RegisteredClaims
	BadgeID string `json:"badge_id"`
}

// Login resolves the badge, stores a new session and returns it with its token.
// Unknown badges are repository.ErrNotFound.
func (s *SessionService) Login(ctx context.Context, badgeID string) (models.Session, string, error) {
	badgeID = strings.TrimSpace(badgeID)

	u, err := s.users.Find(ctx, badgeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.activity.record(ctx, models.ActivityLoginFailed, badgeID, "Unknown badge", nil)
		}
		return models.Session{}, "", err
	}

	now := s.now().UTC()
	sess := models.Session{
		ID:        uuid.NewString(),
		BadgeID:   u.BadgeID,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return models.Session{}, "", err
	}

	token, err := s.issueToken(sess)
	if err != nil {
		return models.Session{}, "", err
	}

	s.activity.record(ctx, models.ActivityLogin, sess.BadgeID, u.Name+" logged in", map[string]any{
		"role":       u.Role,
		"session_id": sess.ID,
	})
	return sess, token, nil
}

// ParseToken verifies the token and returns its live session.
func (s *SessionService) ParseToken(ctx context.Context, accessToken string) (models.Session, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return models.Session{}, ErrInvalidToken
	}

	sess, err := s.sessions.Load(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Session{}, ErrInvalidToken
	}
	if err != nil {
		return models.Session{}, err
	}
	if sess.Expired(s.now()) {
		return models.Session{}, ErrInvalidToken
	}
	return sess, nil
}

// Logout ends the session. Tokens issued for it stop working immediately.
func (s *SessionService) Logout(ctx context.Context, sess models.Session) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	s.activity.record(ctx, models.ActivityLogout, sess.BadgeID, sess.Name+" logged out", nil)
	return nil
}

func (s *SessionService) issueToken(sess models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.BadgeID,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		},
		BadgeID: sess.BadgeID,
	})
	return token.SignedString(s.signingKey)
}
