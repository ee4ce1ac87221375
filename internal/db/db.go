package db

import (
	"fmt"

	"spendiario/internal/auth"
	"spendiario/internal/expense"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables. The unique index on users.email comes from the model tag;
	// emails are stored lowercased so the index is effectively
	// case-insensitive.
	if err := gdb.AutoMigrate(
		&auth.User{},
		&expense.Expense{},
	); err != nil {
		return err
	}

	// List queries always filter by owner and order by date.
	stmts := []string{
		`create index if not exists idx_expenses_user_date on expenses(user_id, date desc);`,
		`create index if not exists idx_expenses_user_category on expenses(user_id, category);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
