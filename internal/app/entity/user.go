package entity

// Role is the marketplace role carried in the auth token.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleStoreOperator Role = "store_operator"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleStoreOperator:
		return RoleStoreOperator, true
	default:
		return "", false
	}
}

type UserID string

func (id UserID) String() string {
	return string(id)
}

func (id UserID) Valid() bool {
	return len(id) > 0
}

// Caller is the authenticated identity decoded from the bearer token.
type Caller struct {
	ID   UserID
	Role Role
}

// CustomerCaller and StoreCaller are the two capability variants handed to the
// lifecycle operations. A caller is narrowed exactly once, at the HTTP
// boundary, so the operations never branch on role strings themselves.
type CustomerCaller struct {
	ID UserID
}

type StoreCaller struct {
	ID UserID
}

func (c Caller) AsCustomer() (CustomerCaller, bool) {
	if c.Role != RoleCustomer || !c.ID.Valid() {
		return CustomerCaller{}, false
	}

	return CustomerCaller{ID: c.ID}, true
}

func (c Caller) AsStore() (StoreCaller, bool) {
	if c.Role != RoleStoreOperator || !c.ID.Valid() {
		return StoreCaller{}, false
	}

	return StoreCaller{ID: c.ID}, true
}

type CallerCtxKey struct{}

type CallerCtx struct {
	Caller     Caller
	StatusCode int
}

func CreateCallerCtx(caller Caller, code int) CallerCtx {
	return CallerCtx{
		Caller:     caller,
		StatusCode: code,
	}
}
