package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the HttpOnly cookie carrying the opaque session identifier.
const CookieName = "arcms_session"

// ErrNotFound indicates the session id does not resolve to a live session.
var ErrNotFound = errors.New("session not found")

// Snapshot is the identity stored server-side for an authenticated request.
// Profile display fields are refreshed on profile updates so pages render
// the submitted values without rereading the employee row.
type Snapshot struct {
	EmployeeID     uint   `json:"employee_id"`
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	LastName       string `json:"last_name"`
	Honorifics     string `json:"honorifics"`
	Email          string `json:"email"`
	Position       string `json:"position"`
	DepartmentID   *uint  `json:"department_id"`
	IsAdmin        bool   `json:"is_admin"`
}

// Store keeps sessions in redis under an opaque UUID with a sliding TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// TTL returns the configured session lifetime, used for cookie expiry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create persists a new session and returns its identifier.
func (s *Store) Create(ctx context.Context, snapshot Snapshot) (string, error) {
	id := uuid.NewString()
	if err := s.write(ctx, id, snapshot); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id and slides its expiry.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	if id == "" {
		return Snapshot{}, ErrNotFound
	}

	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("corrupt session payload: %w", err)
	}

	if err := s.client.Expire(ctx, sessionKey(id), s.ttl).Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	return snapshot, nil
}

// Save overwrites the snapshot for an existing session, keeping its id.
func (s *Store) Save(ctx context.Context, id string, snapshot Snapshot) error {
	if id == "" {
		return ErrNotFound
	}
	return s.write(ctx, id, snapshot)
}

// Destroy removes the session. Destroying an unknown id is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, id string, snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
