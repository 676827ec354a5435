package middleware

import "github.com/filenamedotexe/agency-os-sub006/models"

// Resource names every role-gated surface. All routes consult this one table
// so the access matrix cannot drift between pages.
type Resource string

const (
	ResourceServices       Resource = "services"
	ResourceClients        Resource = "clients"
	ResourceClientTasks    Resource = "client_tasks"
	ResourceMessages       Resource = "messages"
	ResourceKnowledgeRead  Resource = "knowledge_read"
	ResourceKnowledgeWrite Resource = "knowledge_write"
	ResourceEmailAdmin     Resource = "email_admin"
	ResourceSMSAdmin       Resource = "sms_admin"
	ResourceNotifications  Resource = "notifications"
)

var policy = map[Resource][]models.Role{
	ResourceServices:       {models.RoleAdmin, models.RoleTeamMember},
	ResourceClients:        {models.RoleAdmin, models.RoleTeamMember},
	ResourceClientTasks:    {models.RoleClient},
	ResourceMessages:       {models.RoleAdmin, models.RoleTeamMember},
	ResourceKnowledgeRead:  {models.RoleAdmin, models.RoleTeamMember, models.RoleClient},
	ResourceKnowledgeWrite: {models.RoleAdmin, models.RoleTeamMember},
	ResourceEmailAdmin:     {models.RoleAdmin},
	ResourceSMSAdmin:       {models.RoleAdmin},
	ResourceNotifications:  {models.RoleAdmin, models.RoleTeamMember, models.RoleClient},
}

// Allowed reports whether the role may access the resource.
func Allowed(role models.Role, resource Resource) bool {
	for _, r := range policy[resource] {
		if r == role {
			return true
		}
	}
	return false
}

// HomeFor returns the canonical home path for a role. Role-mismatched page
// requests are redirected here, never shown a 403 page.
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleTeamMember:
		return "/team"
	case models.RoleClient:
		return "/client"
	default:
		return "/dashboard"
	}
}
