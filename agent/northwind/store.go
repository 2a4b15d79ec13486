// Package northwind implements the Northwind read queries the tools call into.
// Identifiers are double-quoted so the same SQL runs on the SQLite file and on
// a Postgres import that kept the Northwind table names.
package northwind

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/uptrace/bun"
)

type Customer struct {
	CustomerID  string `bun:"CustomerID" json:"CustomerID"`
	CompanyName string `bun:"CompanyName" json:"CompanyName"`
	Address     string `bun:"Address" json:"Address"`
	Phone       string `bun:"Phone" json:"Phone"`
	Country     string `bun:"Country" json:"Country"`
}

type Product struct {
	ProductID   int64  `bun:"ProductID" json:"ProductID"`
	ProductName string `bun:"ProductName" json:"ProductName"`
	SupplierID  int64  `bun:"SupplierID" json:"SupplierID"`
}

type OrderSubtotal struct {
	Subtotal float64 `bun:"Subtotal" json:"Subtotal"`
}

type Invoice struct {
	CustomerName string  `json:"CustomerName"`
	Address      string  `json:"Address"`
	OrderDate    string  `json:"OrderDate"`
	ProductIDs   []int64 `json:"ProductIDs"`
}

const (
	totalExpenseSQL          = `SELECT SUM("Freight") AS total FROM "Invoices"`
	totalExpenseByCountrySQL = `SELECT SUM("Freight") AS total FROM "Invoices" WHERE "Country" = ?`
	listCountriesSQL         = `SELECT DISTINCT "Country" FROM "Invoices"`
	customerColumnsSQL       = `SELECT "CustomerID", "CompanyName", "Address", "Phone", "Country" FROM "Customers"`
	invoiceHeaderSQL         = `
		SELECT
			c."CompanyName" AS "CustomerName",
			c."Address" AS "Address",
			c."City" AS "City",
			c."Country" AS "Country",
			CAST(o."OrderDate" AS TEXT) AS "OrderDate"
		FROM "Orders" o
		JOIN "Customers" c ON o."CustomerID" = c."CustomerID"
		WHERE o."OrderID" = ?`
	invoiceProductsSQL = `SELECT "ProductID" FROM "Order Details" WHERE "OrderID" = ?`
	productSQL         = `SELECT "ProductID", "ProductName", "SupplierID" FROM "Products" WHERE "ProductID" = ?`
	orderSubtotalSQL   = `SELECT "Subtotal" FROM "Order Subtotals" WHERE "OrderID" = ?`
)

type Store struct {
	db bun.IDB
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

// TotalExpense sums invoice freight, optionally for one country. No matching rows yields 0.
func (s *Store) TotalExpense(ctx context.Context, country string) (float64, error) {
	var total sql.NullFloat64
	q := s.db.NewRaw(totalExpenseSQL)
	if country != "" {
		q = s.db.NewRaw(totalExpenseByCountrySQL, country)
	}
	if err := q.Scan(ctx, &total); err != nil {
		return 0, fmt.Errorf("northwind: total expense: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}

func (s *Store) ListCountries(ctx context.Context) ([]string, error) {
	countries := make([]string, 0)
	if err := s.db.NewRaw(listCountriesSQL).Scan(ctx, &countries); err != nil {
		return nil, fmt.Errorf("northwind: list countries: %w", err)
	}
	return countries, nil
}

// FindCustomers matches CompanyName by substring; an empty name lists every customer.
func (s *Store) FindCustomers(ctx context.Context, name string) ([]Customer, error) {
	customers := make([]Customer, 0)
	q := s.db.NewRaw(customerColumnsSQL)
	if name != "" {
		q = s.db.NewRaw(customerColumnsSQL+` WHERE "CompanyName" LIKE ?`, "%"+name+"%")
	}
	if err := q.Scan(ctx, &customers); err != nil {
		return nil, fmt.Errorf("northwind: find customers: %w", err)
	}
	return customers, nil
}

// InvoiceByID returns the invoice for an order. found is false when the order does not exist.
func (s *Store) InvoiceByID(ctx context.Context, orderID int64) (inv Invoice, found bool, err error) {
	header := map[string]interface{}{}
	if err := s.db.NewRaw(invoiceHeaderSQL, orderID).Scan(ctx, &header); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invoice{}, false, nil
		}
		return Invoice{}, false, fmt.Errorf("northwind: invoice header order=%d: %w", orderID, err)
	}
	if len(header) == 0 {
		return Invoice{}, false, nil
	}

	productIDs := make([]int64, 0)
	if err := s.db.NewRaw(invoiceProductsSQL, orderID).Scan(ctx, &productIDs); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Invoice{}, false, fmt.Errorf("northwind: invoice products order=%d: %w", orderID, err)
	}
	if productIDs == nil {
		productIDs = []int64{}
	}

	address := fmt.Sprintf("%s in %s, %s",
		column(header, "Address"), column(header, "City"), column(header, "Country"))

	return Invoice{
		CustomerName: column(header, "CustomerName"),
		Address:      address,
		OrderDate:    column(header, "OrderDate"),
		ProductIDs:   productIDs,
	}, true, nil
}

// ProductByID returns zero or one product. Id 0 short-circuits to an empty result.
func (s *Store) ProductByID(ctx context.Context, productID int64) ([]Product, error) {
	products := make([]Product, 0)
	if productID == 0 {
		return products, nil
	}
	if err := s.db.NewRaw(productSQL, productID).Scan(ctx, &products); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("northwind: product id=%d: %w", productID, err)
	}
	return products, nil
}

// OrderSubtotal returns zero or one subtotal row. Id 0 short-circuits to an empty result.
func (s *Store) OrderSubtotal(ctx context.Context, orderID int64) ([]OrderSubtotal, error) {
	subtotals := make([]OrderSubtotal, 0)
	if orderID == 0 {
		return subtotals, nil
	}
	if err := s.db.NewRaw(orderSubtotalSQL, orderID).Scan(ctx, &subtotals); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("northwind: order subtotal id=%d: %w", orderID, err)
	}
	return subtotals, nil
}

// column reads a scanned value case-insensitively; Postgres may fold alias case.
func column(row map[string]interface{}, name string) string {
	v, ok := row[name]
	if !ok {
		for k, val := range row {
			if strings.EqualFold(k, name) {
				v = val
				break
			}
		}
	}
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case []byte:
		return string(t)
	default:
		return cast.ToString(t)
	}
}
