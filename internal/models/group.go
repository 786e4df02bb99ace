package models

// Group is a set of users sharing expenses in a single currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip to Lisbon").
	Name string

	// Currency tags every amount recorded in this group.
	Currency string

	// CreatorID is the user who created the group. The creator is always
	// an initial member.
	CreatorID string

	// Members are the current member user IDs, in join order.
	Members []string

	// FormerMembers are users who left the group. Their historical
	// transactions still count toward group balances.
	FormerMembers []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is a current member.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
