// Package authz holds the authorization predicates for every mutating
// action. The predicates are pure: they never touch storage and have no side
// effects, so each gate reads the same in the service that enforces it and in
// the test that covers it.
package authz

import (
	"bizrate/internal/models"
)

// IsAdmin reports whether the role carries the administrative surface:
// catalog mutations, user management, and platform-wide review listing.
func IsAdmin(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanSubmitReview reports whether the role may post reviews. Supervisors are
// barred from reviewing, a product rule rather than a technical constraint.
func CanSubmitReview(role models.Role) bool {
	return role != models.RoleSupervisor
}

// CanReply reports whether user may reply to reviews of business: the user
// must be a supervisor and the business must be assigned to them.
func CanReply(user *models.User, business *models.Business) bool {
	if user.Role != models.RoleSupervisor {
		return false
	}
	return business.SupervisorID != nil && *business.SupervisorID == user.ID
}

// CanDeleteReply reports whether user may delete reply: the authoring
// supervisor, or any admin.
func CanDeleteReply(user *models.User, reply *models.ReviewReply) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.Role == models.RoleSupervisor && reply.SupervisorID == user.ID
}

// CanEditReply reports whether user may edit reply. Only the authoring
// supervisor may; admins get delete rights, not edit rights.
func CanEditReply(user *models.User, reply *models.ReviewReply) bool {
	return user.Role == models.RoleSupervisor && reply.SupervisorID == user.ID
}

// CanDeleteReview reports whether user may delete review: the owner, or any
// admin.
func CanDeleteReview(user *models.User, review *models.Review) bool {
	return review.UserID == user.ID || user.Role == models.RoleAdmin
}

// CanEditReview reports whether user may edit review. Admins are deliberately
// not granted edit rights, only delete.
func CanEditReview(user *models.User, review *models.Review) bool {
	return review.UserID == user.ID
}
