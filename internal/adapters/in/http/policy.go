package http

import "returns/internal/core/ports"

// Actions guarded by the authorization policy.
const (
	actionOrderCreate   = "order.create"
	actionOrderView     = "order.view"
	actionOrderPool     = "order.pool"
	actionOrderAccept   = "order.accept"
	actionOrderUnassign = "order.unassign"
	actionOrderProgress = "order.progress"
	actionOrderCancel   = "order.cancel"
	actionOrderComplete = "order.complete"
	actionOrderBulk     = "order.bulk"
	actionRefundRequest = "refund.request"
	actionRefundBulk    = "refund.bulk"
	actionPromoCreate   = "promo.create"
)

// RolePolicy is a static action to allowed-roles table implementing
// ports.Authorizer. Admin is granted every action implicitly.
type RolePolicy map[string][]ports.Role

// NewDefaultPolicy returns the standard marketplace policy. Customers manage
// their own orders and refunds, drivers work the pool, admins do everything.
func NewDefaultPolicy() RolePolicy {
	return RolePolicy{
		actionOrderCreate:   {ports.RoleCustomer},
		actionOrderView:     {ports.RoleCustomer, ports.RoleDriver},
		actionOrderPool:     {ports.RoleDriver},
		actionOrderAccept:   {ports.RoleDriver},
		actionOrderUnassign: {ports.RoleDriver},
		actionOrderProgress: {ports.RoleDriver},
		actionOrderCancel:   {ports.RoleCustomer},
		actionOrderComplete: {ports.RoleDriver},
		actionRefundRequest: {ports.RoleCustomer},
	}
}

// Allowed reports whether role may perform action.
func (p RolePolicy) Allowed(role ports.Role, action string) bool {
	if role == ports.RoleAdmin {
		return true
	}

	for _, allowed := range p[action] {
		if allowed == role {
			return true
		}
	}

	return false
}
