package user

// Principal is the authenticated identity a request acts as. With session
// auth out of scope it is derived from a header, or the demo fallback.
type Principal struct {
	UserID string
	Email  string
}

func (p Principal) IsZero() bool {
	return p.UserID == ""
}
