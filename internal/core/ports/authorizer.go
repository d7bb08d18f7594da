package ports

// Role identifies the kind of actor invoking an operation. Authentication
// itself happens outside this engine; handlers receive an already
// authenticated role and enforce what it may do.
type Role string

const (
	// RoleCustomer may create, cancel, and request refunds on own orders.
	RoleCustomer Role = "customer"

	// RoleDriver may browse the available pool, accept, unassign, and
	// progress own assigned orders.
	RoleDriver Role = "driver"

	// RoleAdmin may perform any single-order operation plus bulk
	// transitions and bulk refunds.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known actor kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// Authorizer decides whether a role may perform a named action. Keeping the
// policy behind a port lets transports stay free of allowlists.
type Authorizer interface {
	// Allowed reports whether role may perform action.
	Allowed(role Role, action string) bool
}
