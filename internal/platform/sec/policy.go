// Copyright (c) 2026 YaMDb. All rights reserved.

package sec

import (
	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
)

// # Authorization Policy

// Action is the kind of operation an actor attempts on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceKind classifies the resource a policy decision is about.
type ResourceKind string

const (
	// Catalog reference data: writes are admin-only, reads are open.
	KindCategory ResourceKind = "category"
	KindGenre    ResourceKind = "genre"
	KindTitle    ResourceKind = "title"

	// User-generated content: writes require authorship or moderation rights.
	KindReview  ResourceKind = "review"
	KindComment ResourceKind = "comment"
)

// Resource describes the target of an authorization decision.
//
// OwnerID is the authoring user's ID for review/comment instances; it is
// empty for catalog resources and for creations (the resource does not
// exist yet, so the ownership check is vacuous).
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

/*
Authorize decides whether an actor may perform an action on a resource.

It is a pure function over the actor's claims, the action and the
resource descriptor; handlers gate endpoint access at the type level
(see middleware.RequireRole) while services call Authorize with the
loaded resource for the instance-level decision.

Rules, in precedence order:
  - Reads are always allowed, including to anonymous actors.
  - Catalog writes (category/genre/title) require the admin role.
  - Review/comment creation requires any authenticated actor.
  - Review/comment update/delete require authorship or moderator/admin.

Returns:
  - nil: the action is allowed
  - apperr.Unauthorized: the actor is anonymous and the action needs identity
  - apperr.Forbidden: the authenticated actor lacks the required privilege
*/
func Authorize(actor *AuthClaims, action Action, resource Resource) error {

	// Reads on every resource kind are open to the world.
	if action == ActionRead {
		return nil
	}

	switch resource.Kind {
	case KindCategory, KindGenre, KindTitle:
		// Catalog mutations are reserved for administrators, anonymous included.
		if actor == nil {
			return apperr.Unauthorized("Authentication required")
		}
		if !UserRole(actor.Role).IsAdmin() {
			return apperr.Forbidden("Administrator role required")
		}
		return nil

	case KindReview, KindComment:
		if actor == nil {
			return apperr.Unauthorized("Authentication required")
		}
		if action == ActionCreate {
			// Any authenticated user may publish; ownership is vacuous here.
			return nil
		}
		if actor.UserID == resource.OwnerID {
			return nil
		}
		if UserRole(actor.Role).IsModerator() {
			return nil
		}
		return apperr.Forbidden("You can only modify your own content")
	}

	// Unknown resource kinds are denied outright.
	return apperr.Forbidden("Operation not permitted")
}
