package session

import "github.com/bsanalyst/tui-go/internal/api"

// View identifies one of the shell's tabs
type View int

const (
	ViewQuery View = iota
	ViewVisualizations
	ViewDocuments
	ViewAdmin
)

// String returns the tab label
func (v View) String() string {
	switch v {
	case ViewQuery:
		return "Query"
	case ViewVisualizations:
		return "Visualizations"
	case ViewDocuments:
		return "Documents"
	case ViewAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Reachable returns the views a role may open, in tab order. Only
// group_admin reaches the admin view.
func Reachable(role api.Role) []View {
	views := []View{ViewQuery, ViewVisualizations, ViewDocuments}
	if role == api.RoleGroupAdmin {
		views = append(views, ViewAdmin)
	}
	return views
}

// CanAccess reports whether a role may open a view
func CanAccess(role api.Role, v View) bool {
	for _, allowed := range Reachable(role) {
		if allowed == v {
			return true
		}
	}
	return false
}

// Fallback returns current when the role may see it, otherwise the default
// Query view, so a role change never leaves the shell rendering nothing.
func Fallback(role api.Role, current View) View {
	if CanAccess(role, current) {
		return current
	}
	return ViewQuery
}
