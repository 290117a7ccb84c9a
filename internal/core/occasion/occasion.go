// Package occasion derives deterministic occasion tags for menu items
// from category and nutrition facts. Pure, no I/O
package occasion

// Tags recognised by the browse endpoints
const (
	TagBirthday    = "birthday"
	TagCelebration = "celebration"
	TagParty       = "party"
	TagDiet        = "diet"
	TagHealthy     = "healthy"
)

// Browsable reports whether tag can be used as an occasion filter
func Browsable(tag string) bool {
	switch tag {
	case TagBirthday, TagParty, TagDiet, TagHealthy:
		return true
	}
	return false
}

// Derive returns the tag set for one item. The rules are cumulative:
// an item can carry category tags and nutrition tags at the same time
func Derive(category string, calories, protein, fat float64) []string {
	var tags []string
	switch category {
	case "dessert":
		tags = append(tags, TagBirthday, TagCelebration)
	case "main", "side":
		tags = append(tags, TagParty)
	}
	if calories < 400 {
		tags = append(tags, TagDiet)
	}
	if protein > 15 && fat < 10 {
		tags = append(tags, TagHealthy)
	}
	return tags
}
