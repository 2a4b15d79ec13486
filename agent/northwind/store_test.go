package northwind_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanpawarit/Northwind-Tool-Assistant/agent/northwind"
	"github.com/tanpawarit/Northwind-Tool-Assistant/agent/northwind/northwindtest"
)

func newStore(t *testing.T) *northwind.Store {
	t.Helper()
	return northwind.NewStore(northwindtest.Open(t))
}

func TestTotalExpense(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("AllCountries", func(t *testing.T) {
		total, err := store.TotalExpense(ctx, "")
		require.NoError(t, err)
		assert.InDelta(t, 109.82, total, 0.0001)
	})

	t.Run("ByCountry", func(t *testing.T) {
		total, err := store.TotalExpense(ctx, "Germany")
		require.NoError(t, err)
		assert.InDelta(t, 77.44, total, 0.0001)
	})

	t.Run("UnknownCountryIsZero", func(t *testing.T) {
		total, err := store.TotalExpense(ctx, "Atlantis")
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestListCountries(t *testing.T) {
	store := newStore(t)

	countries, err := store.ListCountries(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"France", "Germany"}, countries)
}

func TestFindCustomers(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	all, err := store.FindCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := store.FindCustomers(ctx, "Wandernde")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, northwind.Customer{
		CustomerID:  "WANDK",
		CompanyName: "Die Wandernde Kuh",
		Address:     "Adenauerallee 900",
		Phone:       "0711-020361",
		Country:     "Germany",
	}, matched[0])

	none, err := store.FindCustomers(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInvoiceByID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	inv, found, err := store.InvoiceByID(ctx, 10248)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Vins et alcools Chevalier", inv.CustomerName)
	assert.Equal(t, "59 rue de l'Abbaye in Reims, France", inv.Address)
	assert.Equal(t, "2016-07-04", inv.OrderDate)
	assert.ElementsMatch(t, []int64{11, 42, 72}, inv.ProductIDs)

	_, found, err = store.InvoiceByID(ctx, 99999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvoiceOrderDateKeepsStoredText(t *testing.T) {
	db := northwindtest.Open(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `INSERT INTO "Orders" VALUES (10300, 'VINET', '1996-07-04 13:45:00', 1.5, 'France')`)
	require.NoError(t, err)

	inv, found, err := northwind.NewStore(db).InvoiceByID(ctx, 10300)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1996-07-04 13:45:00", inv.OrderDate)
}

func TestInvoiceWithoutLines(t *testing.T) {
	store := newStore(t)

	inv, found, err := store.InvoiceByID(context.Background(), 10250)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, inv.ProductIDs)
	assert.NotNil(t, inv.ProductIDs)
}

func TestProductByID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	products, err := store.ProductByID(ctx, 51)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, northwind.Product{ProductID: 51, ProductName: "Manjimup Dried Apples", SupplierID: 24}, products[0])

	missing, err := store.ProductByID(ctx, 5000)
	require.NoError(t, err)
	assert.Empty(t, missing)

	zero, err := store.ProductByID(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, zero)
}

func TestOrderSubtotal(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	subtotals, err := store.OrderSubtotal(ctx, 10248)
	require.NoError(t, err)
	require.Len(t, subtotals, 1)
	assert.InDelta(t, 440.0, subtotals[0].Subtotal, 0.0001)

	missing, err := store.OrderSubtotal(ctx, 10250)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
