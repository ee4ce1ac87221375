package expense

import "time"

// Categories are a closed set; labels are wire values, localization is a
// client concern.
const (
	CategoryGroceries     = "Groceries"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryHome          = "Home"
	CategoryWork          = "Work"
	CategoryOther         = "Other"
)

var categories = []string{
	CategoryGroceries,
	CategoryTransport,
	CategoryEntertainment,
	CategoryHealth,
	CategoryHome,
	CategoryWork,
	CategoryOther,
}

func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

func ValidCategory(c string) bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// Expense is a single dated, categorized amount owned by exactly one user.
// UserID is set at creation and never reassigned.
type Expense struct {
	ID       uint64  `gorm:"primaryKey"`
	UserID   uint64  `gorm:"index;not null"`
	Title    string  `gorm:"type:varchar(100);not null"`
	Amount   float64 `gorm:"type:numeric(12,2);not null;check:amount > 0"`
	Category string  `gorm:"not null"`

	// Date is a calendar date; the time component is always midnight UTC.
	Date time.Time `gorm:"type:date;not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}
