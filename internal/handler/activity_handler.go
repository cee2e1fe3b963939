package handler

import (
	"os"

	"github.com/momonga11/notenext-server/internal/pkg/logger"
	internalWS "github.com/momonga11/notenext-server/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ActivityHandler upgrades authenticated clients onto the activity hub so
// they receive project events as they happen.
type ActivityHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewActivityHandler(hub *internalWS.Hub, log logger.ILogger) *ActivityHandler {
	return &ActivityHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/v1/ws", h.ServeWs)
}

func (h *ActivityHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the token
	// arrives as a query parameter; tooling may still use the header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"errors": []string{"Missing token"}})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"errors": []string{"Invalid token"}})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"errors": []string{"Invalid claims"}})
	}
	rawId, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawId)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"errors": []string{"Invalid claims"}})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ActivityHandler", "WebSocket session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("ActivityHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
