package services

import (
	"voice-be/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Capability names an admin permission flag required for an operation.
type Capability string

const (
	// CapNone gates read access only; role and region still apply.
	CapNone          Capability = ""
	CapUpdateStatus  Capability = "canUpdateStatus"
	CapDeleteIssues  Capability = "canDeleteIssues"
	CapManageUsers   Capability = "canManageUsers"
	CapViewAnalytics Capability = "canViewAnalytics"
)

// CanAccess decides whether admin may act on an issue in the given colony.
// Order matters: inactive accounts are rejected outright, then the capability
// flag, then the region. Superadmins bypass the region match only; inactivity
// and missing capabilities still deny them. An empty colony means the
// operation is not scoped to a single issue and skips the region check.
func CanAccess(admin *models.Admin, colony string, capability Capability) error {
	if !admin.IsActive {
		return ErrAdminInactive
	}
	if !hasCapability(admin, capability) {
		return ErrPermissionDenied
	}
	if admin.Role == models.RoleSuperadmin {
		return nil
	}
	if colony == "" || admin.Region == colony {
		return nil
	}
	return ErrOutOfRegion
}

func hasCapability(admin *models.Admin, capability Capability) bool {
	switch capability {
	case CapNone:
		return true
	case CapUpdateStatus:
		return admin.Permissions.CanUpdateStatus
	case CapDeleteIssues:
		return admin.Permissions.CanDeleteIssues
	case CapManageUsers:
		return admin.Permissions.CanManageUsers
	case CapViewAnalytics:
		return admin.Permissions.CanViewAnalytics
	}
	return false
}

// RegionFilter is the outermost filter on every admin list or aggregate
// query. It is applied before any client-supplied filter and is never
// client-controlled; only superadmins see an unscoped view.
func RegionFilter(admin *models.Admin) bson.M {
	if admin.Role == models.RoleSuperadmin {
		return bson.M{}
	}
	return bson.M{"colony": admin.Region}
}
