package db

// TierTable routes a query to the live table for premium users and to
// the weekly free-tier snapshot for everyone else. source must be one
// of the premium table names in FreeTierPairs.
func TierTable(user *User, source string) string {
	if user != nil && user.HasPremiumAccess() {
		return source
	}
	return source + "_free"
}
