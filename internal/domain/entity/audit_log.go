package entity

import (
	"encoding/json"
	"time"
)

// AuditLog registro de una acción de usuario.
type AuditLog struct {
	ID        string
	UserID    *string
	Action    string
	Module    string
	Details   json.RawMessage
	IPAddress string
	CreatedAt time.Time
}

// Setting entrada de configuración clave/valor.
type Setting struct {
	ID          string
	Key         string
	Value       json.RawMessage
	Description string
	Category    string
	UpdatedAt   time.Time
}

// Template plantilla de mensaje (WhatsApp o email).
type Template struct {
	ID        string
	Code      string
	Type      string
	Content   string
	IsActive  bool
	UpdatedAt time.Time
}
