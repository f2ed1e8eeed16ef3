package entity

import "time"

// Roles válidos para User.
const (
	RoleSistema      = "sistema"
	RoleAdmin        = "admin"
	RoleOperador     = "operador"
	RoleVisualizador = "visualizador"
)

// SystemUserEmail identifica al actor del sistema; se crea en la migración inicial y sobrevive al reset.
const SystemUserEmail = "sistema@buildstock.com"

// User persona (o el actor del sistema) a la que se atribuyen movimientos.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}
