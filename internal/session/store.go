// Package session implements the server-side session store backing the
// authentication gate. Sessions live in Redis, keyed by an opaque id carried
// in an HttpOnly cookie; all per-visitor state (identity, locale, the one-shot
// translation payload) is scoped to the session, never process-global.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sudip2708/poustovnik-english/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is the server-side lifetime of an ordinary session.
	DefaultTTL = 24 * time.Hour
	// RememberTTL is the lifetime of a "remember me" session.
	RememberTTL = 30 * 24 * time.Hour
	// TranslationTTL bounds how long a stashed translation waits for the
	// follow-up post view that consumes it.
	TranslationTTL = 5 * time.Minute
)

// ErrNotFound is returned when a session id does not resolve to a live session.
var ErrNotFound = errors.New("session not found")

// Session is the per-visitor authentication and preference state.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Locale    string    `json:"locale"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a session store over the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func translationKey(viewerID string) string {
	return fmt.Sprintf("translation:%s", viewerID)
}

func (s *Store) ttlFor(sess *Session) time.Duration {
	if sess.Remember {
		return RememberTTL
	}
	return DefaultTTL
}

func (s *Store) save(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), b, s.ttlFor(sess)).Err()
}

// Create opens a new session for the given user. Remember-me sessions get the
// extended lifetime.
func (s *Store) Create(ctx context.Context, userID uint, locale string, remember bool) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Locale:    locale,
		Remember:  remember,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get resolves a session id. Missing or expired sessions yield ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Destroy removes a session. Destroying an unknown id is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

// SetLocale updates the session's active locale in place.
func (s *Store) SetLocale(ctx context.Context, id, locale string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Locale = locale
	return s.save(ctx, sess)
}

// StashTranslation stores a pending translation for the viewer. It replaces
// any previous stash and expires on its own if never consumed.
func (s *Store) StashTranslation(ctx context.Context, viewerID string, tp *models.TranslatedPost) error {
	b, err := json.Marshal(tp)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, translationKey(viewerID), b, TranslationTTL).Err()
}

// TakeTranslation returns and deletes the viewer's pending translation for
// the given post, so a stashed translation is rendered at most once. A stash
// for a different post is left in place. Returns nil when nothing matches.
func (s *Store) TakeTranslation(ctx context.Context, viewerID string, postID uint) (*models.TranslatedPost, error) {
	raw, err := s.rdb.Get(ctx, translationKey(viewerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tp models.TranslatedPost
	if err := json.Unmarshal([]byte(raw), &tp); err != nil {
		return nil, nil
	}
	if tp.PostID != postID {
		return nil, nil
	}
	s.rdb.Del(ctx, translationKey(viewerID))
	return &tp, nil
}
