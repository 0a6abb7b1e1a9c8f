package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
)

// Códigos de permiso por módulo.
const (
	PermProducts      = "productos.gestionar"
	PermSuppliers     = "proveedores.gestionar"
	PermCarriers      = "transportistas.gestionar"
	PermOrders        = "pedidos.gestionar"
	PermDispatches    = "despachos.gestionar"
	PermBilling       = "facturacion.gestionar"
	PermCommissions   = "comisiones.gestionar"
	PermPurchasing    = "compras.ver"
	PermUsers         = "usuarios.gestionar"
	PermSettings      = "configuracion.gestionar"
	PermAudit         = "auditoria.ver"
	PermStockTransfer = "stock.importar"
)

// permissionChecker contrato mínimo del middleware; lo implementa *usecase.PermissionUseCase.
type permissionChecker interface {
	HasPermission(ctx context.Context, userID, code string) (bool, error)
}

// RequirePermission verifica que el usuario tenga el permiso (directo o por perfil).
// Debe usarse DESPUÉS de AuthMiddleware. gerencia no consulta la DB.
//   - 403 FORBIDDEN           → sin el permiso.
//   - 503 PERMISSION_CHECK_FAILED → fallo al consultar la DB.
func RequirePermission(code string, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if entity.Role(GetRole(c)).HasAllPermissions() {
			return c.Next()
		}
		userID := GetUserID(c)
		if userID == "" {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "usuario no encontrado en el token")
		}
		allowed, err := checker.HasPermission(c.UserContext(), userID, code)
		if err != nil {
			return fail(c, fiber.StatusServiceUnavailable, "PERMISSION_CHECK_FAILED", "no se pudo verificar el permiso, intente más tarde")
		}
		if !allowed {
			return fail(c, fiber.StatusForbidden, "FORBIDDEN", "falta el permiso '"+code+"'")
		}
		return c.Next()
	}
}
