package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // actor ID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // actor ID
}

func (a *AuditFields) touch(userID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// Role is the caller's role as asserted by the bearer token.
type Role string

const (
	RoleAdmin Role = "admin"
	RolePayer Role = "payer"
)

// SystemUserID is recorded as the actor for mutations made by background jobs.
const SystemUserID = "system"

// Actor identifies who performs an operation. A payer's UserID is also the
// identity of the account they own.
type Actor struct {
	UserID string
	Role   Role
}

// SystemActor returns the actor used by scheduled sweeps.
func SystemActor() Actor {
	return Actor{UserID: SystemUserID, Role: RoleAdmin}
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanActFor reports whether the actor may act on behalf of the given account.
func (a Actor) CanActFor(accountID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == accountID)
}
