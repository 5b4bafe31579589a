package middleware

import (
	"context"
	"strings"

	common_models "go-propdesk/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// ActorHeader identifies the acting user. Authentication happens upstream.
const ActorHeader = "X-User-ID"

// ActorMiddleware copies the acting user into the request context so services
// can attribute audit entries and notifications
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := strings.TrimSpace(c.Get(ActorHeader))
		if actor == "" {
			actor = common_models.SystemActor
		}
		c.Locals(string(common_models.ActorIDKey), actor)
		c.SetUserContext(context.WithValue(c.UserContext(), common_models.ActorIDKey, actor))
		return c.Next()
	}
}
