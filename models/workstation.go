package models

// Workstation states.
const (
	WorkstationActive   = "ACTIVO"
	WorkstationInactive = "INACTIVO"
	WorkstationDeleted  = "ELIMINADO"
)

// Workstation is a physical station where services are performed. It only
// hosts services whose category it supports.
type Workstation struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	State       string     `json:"state"`
	Categories  []Category `json:"categories"`
}
