package enums

// IdentityKind tells which credential is attached to cart and order calls.
type IdentityKind string

const (
	IdentityKindGuest         IdentityKind = "guest"
	IdentityKindAuthenticated IdentityKind = "authenticated"
)

// String implements fmt.Stringer.
func (i IdentityKind) String() string {
	return string(i)
}

// IsValid reports whether the value is a known IdentityKind.
func (i IdentityKind) IsValid() bool {
	return i == IdentityKindGuest || i == IdentityKindAuthenticated
}
