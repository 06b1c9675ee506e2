package project

import "projecthub.org/internal/auth"

// CanView reports whether the principal may read the project. Admins have
// global read access; everyone else must own the project.
func CanView(p auth.Principal, pr Project) bool {
	return p.IsAdmin() || pr.OwnerEmail == p.Email
}

// CanDelete reports whether the principal may delete the project. Deletion
// requires ownership regardless of role; the admin role does not bypass it.
// The asymmetry with CanView is a policy decision, not an oversight.
func CanDelete(p auth.Principal, pr Project) bool {
	return pr.OwnerEmail == p.Email
}

// Scoped filters a project list down to what the principal may see. Admins
// get the input back unmodified; others get their own projects in the
// original relative order.
func Scoped(p auth.Principal, projects []Project) []Project {
	if p.IsAdmin() {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, pr := range projects {
		if pr.OwnerEmail == p.Email {
			out = append(out, pr)
		}
	}
	return out
}
