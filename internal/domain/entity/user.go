package entity

import "time"

// Role tipo de usuario. Cada usuario tiene exactamente un rol.
type Role string

// Roles válidos.
const (
	RoleCliente     Role = "cliente"
	RoleVendedor    Role = "vendedor"
	RoleFacturacion Role = "facturacion"
	RoleDespacho    Role = "despacho"
	RoleCompras     Role = "compras"
	RoleGerencia    Role = "gerencia"
)

// AllRoles en orden de presentación.
var AllRoles = []Role{RoleCliente, RoleVendedor, RoleFacturacion, RoleDespacho, RoleCompras, RoleGerencia}

// ParseRole valida un rol recibido como texto.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// HasAllPermissions gerencia posee todos los permisos y no consulta asignaciones.
func (r Role) HasAllPermissions() bool {
	return r == RoleGerencia
}

// IsStaff roles internos (todo excepto cliente).
func (r Role) IsStaff() bool {
	return r != RoleCliente && r != ""
}

// Estados del ciclo de vida de un usuario.
const (
	UserPending   = "pendiente"
	UserApproved  = "aprobado"
	UserSuspended = "suspendido"
	UserRejected  = "rechazado"
)

// ValidUserStatus indica si s es un estado de usuario conocido.
func ValidUserStatus(s string) bool {
	switch s {
	case UserPending, UserApproved, UserSuspended, UserRejected:
		return true
	}
	return false
}

// User usuario del sistema (personal interno o cliente institucional).
type User struct {
	ID                 string
	Email              string
	PasswordHash       string // bcrypt
	FullName           string
	TaxID              string // DNI o CUIT
	WhatsApp           string
	Institution        string
	Role               Role
	ProfileID          *string
	Status             string
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanLogin solo los usuarios aprobados ingresan.
func (u *User) CanLogin() bool {
	return u.Status == UserApproved
}
