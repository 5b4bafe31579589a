package system

import (
	"context"
	"time"

	"go-propdesk/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service answers
type Pinger interface {
	Ping(ctx context.Context) error
}

type mongoPinger struct {
	db *database.MongodbDB
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.db.DB.Client().Ping(ctx, readpref.Primary())
}

type HealthController struct {
	mongo  Pinger
	logger *zap.Logger
}

func NewHealthController(db *database.MongodbDB, logger *zap.Logger) *HealthController {
	return &HealthController{mongo: mongoPinger{db: db}, logger: logger}
}

// Live answers as long as the process serves requests
func (c *HealthController) Live(ctx *fiber.Ctx) error {
	return ctx.SendString("OK")
}

// Ready checks the database connection
func (c *HealthController) Ready(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	if err := c.mongo.Ping(pingCtx); err != nil {
		c.logger.Warn("Readiness check failed", zap.Error(err))
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"mongo":  err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{"status": "ok", "mongo": "ok"})
}
