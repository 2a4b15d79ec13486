// Package northwindtest provides an in-memory Northwind subset for tests.
package northwindtest

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	dbx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/database"
)

var schema = []string{
	`CREATE TABLE "Customers" (
		"CustomerID" TEXT PRIMARY KEY,
		"CompanyName" TEXT NOT NULL,
		"Address" TEXT,
		"City" TEXT,
		"Country" TEXT,
		"Phone" TEXT
	)`,
	`CREATE TABLE "Orders" (
		"OrderID" INTEGER PRIMARY KEY,
		"CustomerID" TEXT NOT NULL,
		"OrderDate" DATETIME,
		"Freight" REAL,
		"ShipCountry" TEXT
	)`,
	`CREATE TABLE "Products" (
		"ProductID" INTEGER PRIMARY KEY,
		"ProductName" TEXT NOT NULL,
		"SupplierID" INTEGER
	)`,
	`CREATE TABLE "Order Details" (
		"OrderID" INTEGER NOT NULL,
		"ProductID" INTEGER NOT NULL,
		"UnitPrice" REAL NOT NULL,
		"Quantity" INTEGER NOT NULL,
		"Discount" REAL NOT NULL DEFAULT 0,
		PRIMARY KEY ("OrderID", "ProductID")
	)`,
	`CREATE VIEW "Invoices" AS
		SELECT o."OrderID" AS "OrderID", c."Country" AS "Country", o."Freight" AS "Freight"
		FROM "Orders" o JOIN "Customers" c ON o."CustomerID" = c."CustomerID"`,
	`CREATE VIEW "Order Subtotals" AS
		SELECT "OrderID", SUM("UnitPrice" * "Quantity" * (1 - "Discount")) AS "Subtotal"
		FROM "Order Details" GROUP BY "OrderID"`,
}

var seed = []string{
	`INSERT INTO "Customers" VALUES
		('VINET', 'Vins et alcools Chevalier', '59 rue de l''Abbaye', 'Reims', 'France', '26.47.15.10'),
		('TOMSP', 'Toms Spezialitäten', 'Luisenstr. 48', 'Münster', 'Germany', '0251-031259'),
		('WANDK', 'Die Wandernde Kuh', 'Adenauerallee 900', 'Stuttgart', 'Germany', '0711-020361')`,
	`INSERT INTO "Orders" VALUES
		(10248, 'VINET', '2016-07-04', 32.38, 'France'),
		(10249, 'TOMSP', '2016-07-05', 11.61, 'Germany'),
		(10250, 'WANDK', '2016-07-08', 65.83, 'Germany')`,
	`INSERT INTO "Products" VALUES
		(11, 'Queso Cabrales', 5),
		(42, 'Singaporean Hokkien Fried Mee', 20),
		(51, 'Manjimup Dried Apples', 24),
		(72, 'Mozzarella di Giovanni', 14)`,
	`INSERT INTO "Order Details" VALUES
		(10248, 11, 14.0, 12, 0),
		(10248, 42, 9.8, 10, 0),
		(10248, 72, 34.8, 5, 0),
		(10249, 51, 42.4, 40, 0)`,
}

// Open returns a seeded in-memory database closed at test cleanup.
func Open(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.Config{DSN: dbx.MemoryPath})
	if err != nil {
		t.Fatalf("open in-memory northwind: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, stmt := range append(append([]string{}, schema...), seed...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed northwind: %v\n%s", err, stmt)
		}
	}
	return db
}
