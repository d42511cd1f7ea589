package mirror

import "github.com/spec-kit/access-gateway/internal/domain"

// NavItem is one entry of the navigation menu.
type NavItem struct {
	Name string
	To   string
}

var anonymousNav = []NavItem{
	{Name: "Inicio", To: "/"},
	{Name: "Servicios", To: "/servicios"},
	{Name: "Contactanos", To: "/contacto"},
	{Name: "Quienes somos", To: "/quienessomos"},
}

var roleNav = map[domain.Role][]NavItem{
	domain.RoleAdmin: {
		{Name: "Inicio", To: "/admin"},
		{Name: "Gestionar Usuarios", To: "/admin/usuarios"},
		{Name: "Visitas Tecnicas", To: "/admin/visitatecnica"},
		{Name: "Cotizaciones", To: "/admin/cotizaciones"},
		{Name: "Servicios e Informes", To: "/admin/servicios"},
	},
	domain.RoleCustomer: {
		{Name: "Inicio", To: "/usuario"},
		{Name: "Visitas Tecnicas", To: "/usuario/visitatecnica"},
		{Name: "Cotizaciones", To: "/usuario/cotizaciones"},
		{Name: "Servicios e Informes", To: "/usuario/serviciosinformes"},
		{Name: "Contacto", To: "/contacto"},
	},
	domain.RoleTechnician: {
		{Name: "Inicio", To: "/tecnico"},
		{Name: "Visitas Asignadas", To: "/tecnico/visitasasignadas"},
		{Name: "Cotizaciones", To: "/tecnico/cotizaciones"},
		{Name: "Servicios e informes", To: "/tecnico/serviciosinformes"},
	},
}

// Navigation returns the menu for the mirrored session.
func (s Snapshot) Navigation() []NavItem {
	items, ok := roleNav[s.Role]
	if !ok {
		items = anonymousNav
	}
	return append([]NavItem(nil), items...)
}

// LandingPath is where the UI sends the user after sign-in.
func (s Snapshot) LandingPath() string {
	return s.Role.LandingPath()
}
