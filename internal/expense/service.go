package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound covers both a missing expense and someone else's expense, so a
// caller cannot probe for rows they do not own.
var ErrNotFound = errors.New("expense not found")

// ValidationError reports the first rejected input constraint.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

const maxTitleLen = 100

// Service executes owner-scoped CRUD against the expenses table. Every query
// carries a user_id predicate; there is no unscoped path.
type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Title    string
	Amount   *float64
	Category string
	Date     *time.Time
}

type UpdateInput struct {
	Title    *string
	Amount   *float64
	Category *string
	Date     *time.Time
}

type ListInput struct {
	Page      int
	Limit     int
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

type ListResult struct {
	Items       []Expense
	Page        int
	TotalPages  int
	TotalItems  int64
	TotalAmount float64
}

// Day truncates t to its calendar date at midnight UTC, the canonical form
// for the date column.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) Create(ctx context.Context, userID uint64, in CreateInput) (*Expense, error) {
	title := strings.TrimSpace(in.Title)

	if title == "" || in.Amount == nil || in.Category == "" {
		return nil, &ValidationError{Reason: "title, amount and category are required"}
	}
	if *in.Amount <= 0 {
		return nil, &ValidationError{Reason: "amount must be greater than 0"}
	}
	if !ValidCategory(in.Category) {
		return nil, &ValidationError{Reason: "invalid category"}
	}
	if len(title) > maxTitleLen {
		return nil, &ValidationError{Reason: "title must be at most 100 characters"}
	}

	date := Day(time.Now())
	if in.Date != nil {
		date = Day(*in.Date)
	}

	e := Expense{
		UserID:   userID,
		Title:    title,
		Amount:   *in.Amount,
		Category: in.Category,
		Date:     date,
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Update applies only the supplied fields; nil fields keep their prior
// values. Supplied fields obey the same rules as Create.
func (s *Service) Update(ctx context.Context, userID, id uint64, in UpdateInput) (*Expense, error) {
	var title string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, &ValidationError{Reason: "title, amount and category are required"}
		}
	}
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, &ValidationError{Reason: "amount must be greater than 0"}
	}
	if in.Category != nil && !ValidCategory(*in.Category) {
		return nil, &ValidationError{Reason: "invalid category"}
	}
	if in.Title != nil && len(title) > maxTitleLen {
		return nil, &ValidationError{Reason: "title must be at most 100 characters"}
	}

	var e Expense
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		e.Title = title
	}
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.Date != nil {
		e.Date = Day(*in.Date)
	}

	if err := s.DB.WithContext(ctx).Save(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uint64) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of the owner's expenses, newest date first, newest
// row first within a date. TotalItems and TotalAmount are computed over the
// whole filtered set, not the returned page.
func (s *Service) List(ctx context.Context, userID uint64, in ListInput) (*ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = 50
	}

	filtered := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&Expense{}).Where("user_id = ?", userID)
		// unknown category values (and the "all" sentinel) mean unfiltered
		if in.Category != "" && in.Category != "all" && ValidCategory(in.Category) {
			q = q.Where("category = ?", in.Category)
		}
		if in.StartDate != nil {
			q = q.Where("date >= ?", Day(*in.StartDate))
		}
		if in.EndDate != nil {
			q = q.Where("date <= ?", Day(*in.EndDate))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, err
	}

	var totalAmount float64
	err := filtered().
		Select("coalesce(sum(amount), 0)").
		Scan(&totalAmount).Error
	if err != nil {
		return nil, err
	}

	var items []Expense
	err = filtered().
		Order("date desc").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ListResult{
		Items:       items,
		Page:        page,
		TotalPages:  totalPages,
		TotalItems:  total,
		TotalAmount: totalAmount,
	}, nil
}
