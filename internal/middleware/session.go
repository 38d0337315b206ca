package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/team-mid/arcms-api/internal/session"
	"github.com/team-mid/arcms-api/internal/utils"
)

// Locals keys populated by WithSession.
const (
	LocalsSessionID = "session_id"
	LocalsSession   = "session"
)

// WithSession resolves the session cookie into a snapshot and stores it in
// request locals. Requests without a valid session pass through untouched so
// guards can decide per route.
func WithSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(session.CookieName)
		if id == "" {
			return c.Next()
		}

		snapshot, err := store.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return c.Next()
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "Unable to verify your session. Please try again.")
		}

		c.Locals(LocalsSessionID, id)
		c.Locals(LocalsSession, snapshot)

		return c.Next()
	}
}

// RequireUser rejects requests that carry no live session.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromCtx(c); !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests whose session does not belong to an admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, ok := SessionFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		}
		if !snapshot.IsAdmin {
			return utils.SendError(c, fiber.StatusForbidden, "You do not have permission to perform this action.")
		}
		return c.Next()
	}
}

// SessionFromCtx returns the snapshot stored by WithSession.
func SessionFromCtx(c *fiber.Ctx) (session.Snapshot, bool) {
	value := c.Locals(LocalsSession)
	if value == nil {
		return session.Snapshot{}, false
	}
	snapshot, ok := value.(session.Snapshot)
	return snapshot, ok
}

// SessionIDFromCtx returns the session identifier stored by WithSession.
func SessionIDFromCtx(c *fiber.Ctx) string {
	if value := c.Locals(LocalsSessionID); value != nil {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
