package rbac

// Role names. Keep these stable; they are stored on users and carried in tokens.
const (
	RoleAdmin             = "Admin"
	RoleReviewer          = "Reviewer"
	RoleKnowledgeChampion = "Knowledge Champion"
	RoleSeniorConsultant  = "Senior Consultant"
	RoleConsultant        = "Consultant"
	RoleJuniorConsultant  = "Junior Consultant"
)

// DefaultRole is assigned at signup when none is requested.
const DefaultRole = RoleConsultant

// ReviewerRoles may approve or reject knowledge assets.
var ReviewerRoles = []string{RoleReviewer, RoleKnowledgeChampion, RoleSeniorConsultant, RoleAdmin}

func IsAdmin(role string) bool { return role == RoleAdmin }

func CanReview(role string) bool {
	for _, r := range ReviewerRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsKnownRole reports whether role is one of the roles above.
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReviewer, RoleKnowledgeChampion, RoleSeniorConsultant, RoleConsultant, RoleJuniorConsultant:
		return true
	default:
		return false
	}
}
