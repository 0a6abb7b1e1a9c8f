package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// WhatsAppHandler webhook de la Cloud API (verificación y recepción de mensajes).
type WhatsAppHandler struct {
	verifyToken string
	log         zerolog.Logger
}

// NewWhatsAppHandler construye el handler.
func NewWhatsAppHandler(verifyToken string, log zerolog.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{verifyToken: verifyToken, log: log}
}

// Verify godoc
// @Summary      Verificación del webhook de WhatsApp
// @Tags         whatsapp
// @Param        hub.mode          query  string  true  "subscribe"
// @Param        hub.verify_token  query  string  true  "token"
// @Param        hub.challenge     query  string  true  "challenge"
// @Success      200  {string}  string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/whatsapp/webhook [get]
func (h *WhatsAppHandler) Verify(c *fiber.Ctx) error {
	if h.verifyToken == "" || c.Query("hub.mode") != "subscribe" || c.Query("hub.verify_token") != h.verifyToken {
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "verificación rechazada")
	}
	return c.Status(fiber.StatusOK).SendString(c.Query("hub.challenge"))
}

// waEvent subconjunto del payload de notificaciones de la Cloud API.
type waEvent struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Receive godoc
// @Summary      Mensajes entrantes de WhatsApp
// @Description  Registra los mensajes recibidos. Siempre responde 200 para que Meta no reintente.
// @Tags         whatsapp
// @Accept       json
// @Success      200
// @Router       /api/whatsapp/webhook [post]
func (h *WhatsAppHandler) Receive(c *fiber.Ctx) error {
	var ev waEvent
	if err := c.BodyParser(&ev); err != nil {
		h.log.Warn().Err(err).Msg("whatsapp: payload de webhook inválido")
		return c.SendStatus(fiber.StatusOK)
	}
	for _, e := range ev.Entry {
		for _, ch := range e.Changes {
			for _, m := range ch.Value.Messages {
				h.log.Info().Str("de", m.From).Str("tipo", m.Type).Str("texto", m.Text.Body).Msg("whatsapp: mensaje recibido")
			}
		}
	}
	return c.SendStatus(fiber.StatusOK)
}
