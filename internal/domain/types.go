package domain

import "time"

// Category is one of the fixed attribute families every item can hold
// memberships in.
type Category string

const (
	CategoryColor  Category = "color"
	CategoryNose   Category = "nose"
	CategoryBody   Category = "body"
	CategoryPalate Category = "palate"
	CategoryFinish Category = "finish"
)

// Categories returns all attribute categories in presentation order.
func Categories() []Category {
	return []Category{CategoryColor, CategoryNose, CategoryBody, CategoryPalate, CategoryFinish}
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryColor, CategoryNose, CategoryBody, CategoryPalate, CategoryFinish:
		return true
	}
	return false
}

// User identity is externally assigned and stable; display attributes are
// overwritten on every interaction.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsBot        bool   `json:"is_bot"`
}

// Item is a rateable entity. Strength is the scalar ranking value
// (alcohol percent for whiskies).
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
}

// Attribute is a deduplicated (category, id) node shared across items.
type Attribute struct {
	Category Category `json:"category"`
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
}

const (
	MinRank = 1
	MaxRank = 5
)

// Rating is a user's single opinion about one item. At most one exists per
// (user, item) pair; re-rating overwrites rank and timestamp.
type Rating struct {
	Rank int       `json:"rank"`
	At   time.Time `json:"at"`
}

func ValidRank(rank int) bool {
	return rank >= MinRank && rank <= MaxRank
}

// Profile holds the dominant (plurality, ties included) attributes per
// category for one user.
type Profile struct {
	Dominant map[Category][]Attribute `json:"dominant"`
}

// Undetermined reports whether no category produced any dominant attribute,
// which is the case for users without ratings.
func (p *Profile) Undetermined() bool {
	if p == nil {
		return true
	}
	for _, attrs := range p.Dominant {
		if len(attrs) > 0 {
			return false
		}
	}
	return true
}

// ItemRatingCount pairs an item with the number of ratings it has received.
type ItemRatingCount struct {
	Item  Item  `json:"item"`
	Count int64 `json:"count"`
}

// UserRating pairs an item with the rank one user gave it.
type UserRating struct {
	Item Item `json:"item"`
	Rank int  `json:"rank"`
}
