package dto

import (
	"encoding/json"
	"time"
)

// AuditLogResponse entrada del log de auditoría.
type AuditLogResponse struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"usuario_id"`
	Action    string          `json:"accion"`
	Module    string          `json:"modulo"`
	Details   json.RawMessage `json:"detalles"`
	IPAddress string          `json:"ip_address,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditFilterRequest filtros del log. Fechas en RFC3339 o YYYY-MM-DD.
type AuditFilterRequest struct {
	Module string `query:"modulo"`
	UserID string `query:"usuario_id"`
	From   string `query:"fecha_desde"`
	To     string `query:"fecha_hasta"`
	Limit  int    `query:"limit"`
}

// SettingResponse entrada de configuración.
type SettingResponse struct {
	Key         string          `json:"clave"`
	Value       json.RawMessage `json:"valor"`
	Description string          `json:"descripcion"`
	Category    string          `json:"categoria"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UpdateSettingRequest nuevo valor (cualquier JSON).
type UpdateSettingRequest struct {
	Value json.RawMessage `json:"valor" validate:"required"`
}

// TemplateResponse plantilla de mensaje.
type TemplateResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertTemplateRequest alta o edición de plantilla por code.
type UpsertTemplateRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=100"`
	Type     string `json:"type" validate:"omitempty,oneof=whatsapp email"`
	Content  string `json:"content" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

// StockImportResponse resultado de la importación: vista previa y total de filas enviadas.
type StockImportResponse struct {
	Rows    int                      `json:"filas"`
	Columns []string                 `json:"columnas"`
	Missing []string                 `json:"columnas_faltantes"`
	Preview []map[string]interface{} `json:"vista_previa"`
}

// AssistantRequest pregunta al asistente de ventas.
type AssistantRequest struct {
	Question string `json:"pregunta" validate:"required,min=2,max=1000"`
}

// AssistantResponse respuesta del asistente.
type AssistantResponse struct {
	Answer string `json:"respuesta"`
}
