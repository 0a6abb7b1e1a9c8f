package ports

import "context"

// AuditRecorder registra acciones en el log de auditoría. Es best-effort: un fallo no
// interrumpe la operación auditada.
type AuditRecorder interface {
	Record(ctx context.Context, userID, action, module string, details map[string]interface{})
}

// NopAuditRecorder descarta registros.
type NopAuditRecorder struct{}

// Record no hace nada.
func (NopAuditRecorder) Record(context.Context, string, string, string, map[string]interface{}) {}
