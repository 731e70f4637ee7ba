package domain

// Permissions maps a permission name to whether it is granted. The effective
// set depends on the selected empresa and is refreshed on selection.
type Permissions map[string]bool

// Has reports whether the named permission is explicitly granted.
func (p Permissions) Has(name string) bool {
	return p[name]
}

// Merge returns a copy of p overlaid with the entries of other.
func (p Permissions) Merge(other Permissions) Permissions {
	out := make(Permissions, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// EmpresaMembership is the slice of a user profile that records which
// empresas the user may operate against. Selection is checked against this
// list locally, without a server round-trip.
type EmpresaMembership struct {
	ID     int    `json:"id"`
	Name   string `json:"nome"`
	Active bool   `json:"ativa"`
}

// User models the authenticated actor. The record is persisted verbatim under
// the auth_user storage key and restored at startup.
type User struct {
	ID          int                 `json:"id"`
	Username    string              `json:"username"`
	Name        string              `json:"nome,omitempty"`
	Email       string              `json:"email,omitempty"`
	Permissions Permissions         `json:"permissions,omitempty"`
	Empresas    []EmpresaMembership `json:"empresas,omitempty"`
}

// CanAccessEmpresa reports whether the user's membership list contains the
// empresa with an active flag.
func (u *User) CanAccessEmpresa(id int) bool {
	if u == nil {
		return false
	}
	for _, m := range u.Empresas {
		if m.ID == id && m.Active {
			return true
		}
	}
	return false
}

// Credentials carries a login attempt.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
