package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "request_id"
)

// RequestLogger asigna un request id (o respeta el del cliente), deja un
// sublogger en el contexto de usuario de la petición y registra método, ruta,
// status y duración al terminar.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		c.Locals(LocalRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		reqLogger := logger.With().
			Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("remote_ip", c.IP()).
			Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler de la app fije el status antes de loguear.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := reqLogger.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLogger.Error()
		} else if status >= fiber.StatusBadRequest {
			event = reqLogger.Warn()
		}
		event.Int("status", status).Dur("duration", time.Since(start)).Msg("http request")
		return nil
	}
}
