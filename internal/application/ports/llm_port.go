package ports

import "context"

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz.
type LLMService interface {
	// Ask envía el prompt de sistema (contexto del catálogo) y la pregunta del usuario.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Ask(ctx context.Context, systemPrompt, question string) (string, error)
}
