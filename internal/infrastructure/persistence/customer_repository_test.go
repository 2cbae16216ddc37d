package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/partner"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_FindFiltered(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "image_url", "total_invoices", "total_pending", "total_paid"}).
		AddRow(id.String(), "Amy Burns", "amy@burns.com", "/customers/amy-burns.png", int64(2), int64(1250), int64(0))

	mock.ExpectQuery(`SELECT customers\.id, .* COUNT\(invoices\.id\) AS total_invoices, .* FROM "?customers"? ` +
		`LEFT JOIN invoices ON customers\.id = invoices\.customer_id ` +
		`WHERE customers\.name ILIKE \$1 OR customers\.email ILIKE \$2 ` +
		`GROUP BY customers\.id, customers\.name, customers\.email, customers\.image_url ` +
		`ORDER BY customers\.name ASC LIMIT \$3`).
		WithArgs("%amy%", "%amy%", shared.ItemsPerPage).
		WillReturnRows(rows)

	result, err := NewGormCustomerRepository(db).FindFiltered(context.Background(), shared.NewListQuery("amy", 1))

	require.NoError(t, err)
	assert.Equal(t, []partner.CustomerRow{{
		ID:            id,
		Name:          "Amy Burns",
		Email:         "amy@burns.com",
		ImageURL:      "/customers/amy-burns.png",
		TotalInvoices: 2,
		TotalPending:  1250,
	}}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_Update(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	c, err := partner.NewCustomer(uuid.New(), "Amy Burns", "amy@burns.com", time.Now())
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "customers" SET "email"=\$1,"name"=\$2 WHERE id = \$3`).
		WithArgs("amy@burns.com", "Amy Burns", c.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewGormCustomerRepository(db).Update(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_FindOptions(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT id, name FROM "customers" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(a.String(), "Amy Burns").
			AddRow(b.String(), "Balazs Orban"))

	options, err := NewGormCustomerRepository(db).FindOptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []partner.CustomerOption{{ID: a, Name: "Amy Burns"}, {ID: b, Name: "Balazs Orban"}}, options)
}
