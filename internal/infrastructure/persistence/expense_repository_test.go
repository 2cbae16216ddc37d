package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/finance"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/domain/shared/valueobject"
	"github.com/invoicedash/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormExpenseRepository_CRUDAndTotal(t *testing.T) {
	ctx := context.Background()
	repo := NewGormExpenseRepository(newSQLiteDB(t, &models.ExpenseModel{}))

	total, err := repo.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Cents(0), total)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rent, err := finance.NewExpense(uuid.New(), "Office rent", "rent", 150000, date, "")
	require.NoError(t, err)
	coffee, err := finance.NewExpense(uuid.New(), "Coffee", "supplies", 1250, date, "beans")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, rent))
	require.NoError(t, repo.Create(ctx, coffee))

	total, err = repo.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Cents(151250), total)

	require.NoError(t, coffee.Update("Coffee", "supplies", 2500, date, "more beans"))
	require.NoError(t, repo.Update(ctx, coffee))

	found, err := repo.FindByID(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Cents(2500), found.Amount)
	assert.Equal(t, "more beans", found.Comments)

	require.NoError(t, repo.Delete(ctx, rent.ID))
	_, err = repo.FindByID(ctx, rent.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormExpenseRepository_FindFiltered(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE name ILIKE \$1 OR type ILIKE \$2 OR amount::text ILIKE \$3 OR comments ILIKE \$4 ` +
		`ORDER BY expense_date ASC LIMIT \$5`).
		WithArgs("%rent%", "%rent%", "%rent%", "%rent%", shared.ItemsPerPage).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "amount", "expense_date", "comments"}).
			AddRow(id.String(), "Office rent", "rent", int64(150000), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ""))

	expenses, err := NewGormExpenseRepository(db).FindFiltered(context.Background(), shared.NewListQuery("rent", 1))

	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, id, expenses[0].ID)
	assert.Equal(t, valueobject.Cents(150000), expenses[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
