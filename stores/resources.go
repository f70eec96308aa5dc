package stores

import (
	"salonova/backend"
	"salonova/models"
	"salonova/notify"
)

// Constructors for the plain CRUD stores. Each wraps exactly one backend
// resource; anything with extra workflow (appointments, rearrange, wizard,
// statistics) lives in its own file.

func NewCategoryStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.Category] {
	return New[models.Category](cl, n, Config{
		Resource:       "/api/categories",
		Name:           "categories",
		DefaultOrderBy: "name",
		MsgConflict:    "La categoría ya existe",
		MsgCreated:     "Categoría creada correctamente",
		MsgUpdated:     "Categoría actualizada correctamente",
		MsgDeleted:     "Categoría eliminada correctamente",
	})
}

func NewServiceStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.Service] {
	return New[models.Service](cl, n, Config{
		Resource:       "/api/services",
		Name:           "services",
		DefaultOrderBy: "name",
		MsgConflict:    "El servicio ya existe",
		MsgCreated:     "Servicio creado correctamente",
		MsgUpdated:     "Servicio actualizado correctamente",
		MsgDeleted:     "Servicio eliminado correctamente",
	})
}

func NewPackageStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.Package] {
	return New[models.Package](cl, n, Config{
		Resource:       "/api/packages",
		Name:           "packages",
		DefaultOrderBy: "name",
		MsgConflict:    "El paquete ya existe",
		MsgCreated:     "Paquete creado correctamente",
		MsgUpdated:     "Paquete actualizado correctamente",
		MsgDeleted:     "Paquete eliminado correctamente",
	})
}

func NewUserStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.User] {
	return New[models.User](cl, n, Config{
		Resource:       "/api/users",
		Name:           "users",
		DefaultOrderBy: "name",
		MsgConflict:    "El usuario ya existe",
		MsgCreated:     "Usuario creado correctamente",
		MsgUpdated:     "Usuario actualizado correctamente",
		MsgDeleted:     "Usuario eliminado correctamente",
	})
}

func NewWorkstationStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.Workstation] {
	return New[models.Workstation](cl, n, Config{
		Resource:       "/api/workstations",
		Name:           "workstations",
		DefaultOrderBy: "name",
		MsgConflict:    "El puesto de trabajo ya existe",
		MsgCreated:     "Puesto de trabajo creado correctamente",
		MsgUpdated:     "Puesto de trabajo actualizado correctamente",
		MsgDeleted:     "Puesto de trabajo eliminado correctamente",
	})
}

func NewPaymentStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.Payment] {
	return New[models.Payment](cl, n, Config{
		Resource:       "/api/payments",
		Name:           "payments",
		DefaultOrderBy: "datetime",
		MsgCreated:     "Pago registrado correctamente",
		MsgUpdated:     "Pago actualizado correctamente",
		MsgDeleted:     "Pago eliminado correctamente",
	})
}

// NewAuditStore differs from the rest: audit records are read-only, and
// every setter re-fetches immediately instead of waiting for the
// presentation layer.
func NewAuditStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.AuditRecord] {
	return New[models.AuditRecord](cl, n, Config{
		Resource:       "/api/audits",
		Name:           "audits",
		DefaultOrderBy: "datetime",
		RefetchOnSet:   true,
	})
}

// NewMyDatesStore lists the appointments of the logged-in client only.
func NewMyDatesStore(cl *backend.Client, n notify.Notifier) *EntityStore[models.Appointment] {
	return New[models.Appointment](cl, n, Config{
		Resource:       "/api/appointments/mine",
		Name:           "my-dates",
		DefaultOrderBy: "datetimeStart",
	})
}
