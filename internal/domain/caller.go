package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleEmployee Role = "employee"
)

// Caller is the authenticated identity handed to every operation. Token
// issuance and session handling live outside this service; the HTTP layer
// builds a Caller from the identity the gateway forwards.
type Caller struct {
	ID   int64
	Role Role
}

type Action string

const (
	ActionPlaceOrder    Action = "place_order"
	ActionPayOrder      Action = "pay_order"
	ActionViewOwnOrders Action = "view_own_orders"
	ActionFulfill       Action = "fulfill"
	ActionUpdateStock   Action = "update_stock"
	ActionReview        Action = "review"
	ActionRequestReturn Action = "request_return"
	ActionViewReturns   Action = "view_returns"
	ActionDecideReturn  Action = "decide_return"
)

var actionRoles = map[Action]Role{
	ActionPlaceOrder:    RoleCustomer,
	ActionPayOrder:      RoleCustomer,
	ActionViewOwnOrders: RoleCustomer,
	ActionFulfill:       RoleEmployee,
	ActionUpdateStock:   RoleEmployee,
	ActionReview:        RoleCustomer,
	ActionRequestReturn: RoleCustomer,
	ActionViewReturns:   RoleEmployee,
	ActionDecideReturn:  RoleEmployee,
}

var actionDenied = map[Action]string{
	ActionPlaceOrder:    "Only customers can place orders.",
	ActionPayOrder:      "Only the customer who placed the order can pay.",
	ActionViewOwnOrders: "Only customers can view their orders.",
	ActionFulfill:       "Only employees can assign warehouses.",
	ActionUpdateStock:   "Only employees can update stock.",
	ActionReview:        "Only customers can add reviews.",
	ActionRequestReturn: "Only customers can request returns.",
	ActionViewReturns:   "Only employees can view return requests.",
	ActionDecideReturn:  "Only employees can process return requests.",
}

// Authorize is the single role gate used by every operation.
func Authorize(caller Caller, action Action) error {
	if caller.Role != actionRoles[action] {
		return Forbidden(actionDenied[action])
	}
	return nil
}
