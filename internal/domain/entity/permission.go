package entity

import "sort"

// Profile perfil: conjunto de permisos asignable a usuarios.
type Profile struct {
	ID          string
	Name        string
	Description string
}

// Permission permiso de un módulo.
type Permission struct {
	ID          string
	Code        string
	Name        string
	Description string
	Module      string
}

// PermissionAssignment vincula un permiso a un usuario o a un perfil.
type PermissionAssignment struct {
	ID           string
	PermissionID string
	UserID       *string
	ProfileID    *string
	Active       bool
}

// PermissionSet permisos efectivos de un usuario. All=true para gerencia.
type PermissionSet struct {
	All   bool
	Codes []string
}

// NewPermissionSet une y deduplica códigos, ordenados.
func NewPermissionSet(groups ...[]string) PermissionSet {
	seen := make(map[string]struct{})
	var codes []string
	for _, g := range groups {
		for _, c := range g {
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return PermissionSet{Codes: codes}
}

// FullPermissionSet conjunto "todos".
func FullPermissionSet() PermissionSet {
	return PermissionSet{All: true}
}

// Has verifica un código.
func (s PermissionSet) Has(code string) bool {
	if s.All {
		return true
	}
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	return false
}
