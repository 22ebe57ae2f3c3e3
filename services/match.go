package services

import "tintpro-backend/models"

// MatchFunc decides whether two catalog entries are the same selection.
type MatchFunc func(a, b models.ServiceItem) bool

// MatchByIDOrName compares price ids when either side has one, and falls
// back to (name, category) when neither does.
func MatchByIDOrName(a, b models.ServiceItem) bool {
	if a.HasID() || b.HasID() {
		return a.ID == b.ID
	}
	return a.Name == b.Name && a.Category == b.Category
}

// matchesRequest resolves a client-supplied reference against a catalog
// entry: by id when the reference carries one, otherwise by name and
// category.
func matchesRequest(item, ref models.ServiceItem) bool {
	if ref.HasID() {
		return item.ID == ref.ID
	}
	return item.Name == ref.Name && item.Category == ref.Category
}
