package task

// User is the principal a task runs on behalf of. The lifecycle core treats
// it as opaque.
type User struct {
	Name string
}

func (u *User) String() string {
	if u == nil {
		return "<no user>"
	}
	return u.Name
}
