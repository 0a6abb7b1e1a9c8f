package ports

import "context"

type actorKey struct{}

// WithActor adjunta el usuario autenticado al contexto.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom devuelve el usuario autenticado o "" si no hay.
func ActorFrom(ctx context.Context) string {
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}

type clientIPKey struct{}

// WithClientIP adjunta la IP del cliente (se guarda en el log de auditoría).
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFrom devuelve la IP del cliente o "".
func ClientIPFrom(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}
