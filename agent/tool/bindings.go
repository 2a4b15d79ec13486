package tool

import (
	"context"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	"github.com/tanpawarit/Northwind-Tool-Assistant/agent/northwind"
)

const (
	ToolTotalExpense      = "total_expense"
	ToolListCountries     = "list_countries"
	ToolFindCustomers     = "find_customers"
	ToolFindInvoiceByID   = "find_invoice_by_id"
	ToolFindProductByID   = "find_product_by_id"
	ToolFindOrderSubtotal = "find_order_subtotal"
)

// DataSource is the query surface the tools call into.
type DataSource interface {
	TotalExpense(ctx context.Context, country string) (float64, error)
	ListCountries(ctx context.Context) ([]string, error)
	FindCustomers(ctx context.Context, name string) ([]northwind.Customer, error)
	InvoiceByID(ctx context.Context, orderID int64) (northwind.Invoice, bool, error)
	ProductByID(ctx context.Context, productID int64) ([]northwind.Product, error)
	OrderSubtotal(ctx context.Context, orderID int64) ([]northwind.OrderSubtotal, error)
}

var _ DataSource = (*northwind.Store)(nil)

func bindings(ds DataSource) map[string]Invoker {
	return map[string]Invoker{
		ToolTotalExpense: func(ctx context.Context, args map[string]any) (contractx.Result, error) {
			country, err := CoerceOptionalString(args, "country")
			if err != nil {
				return nil, err
			}
			total, err := ds.TotalExpense(ctx, country)
			if err != nil {
				return nil, err
			}
			return contractx.Scalar{Value: total}, nil
		},
		ToolListCountries: func(ctx context.Context, _ map[string]any) (contractx.Result, error) {
			countries, err := ds.ListCountries(ctx)
			if err != nil {
				return nil, err
			}
			out := make(contractx.List, 0, len(countries))
			for _, c := range countries {
				out = append(out, c)
			}
			return out, nil
		},
		ToolFindCustomers: func(ctx context.Context, args map[string]any) (contractx.Result, error) {
			name, err := CoerceOptionalString(args, "name")
			if err != nil {
				return nil, err
			}
			customers, err := ds.FindCustomers(ctx, name)
			if err != nil {
				return nil, err
			}
			rows := make(contractx.Rows, 0, len(customers))
			for _, c := range customers {
				rows = append(rows, contractx.Row{
					"CustomerID":  c.CustomerID,
					"CompanyName": c.CompanyName,
					"Address":     c.Address,
					"Phone":       c.Phone,
					"Country":     c.Country,
				})
			}
			return rows, nil
		},
		ToolFindInvoiceByID: func(ctx context.Context, args map[string]any) (contractx.Result, error) {
			id, err := CoerceInt(args, "id")
			if err != nil {
				return nil, err
			}
			inv, found, err := ds.InvoiceByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if !found {
				return contractx.Record{}, nil
			}
			return contractx.Record{
				"CustomerName": inv.CustomerName,
				"Address":      inv.Address,
				"OrderDate":    inv.OrderDate,
				"ProductIDs":   inv.ProductIDs,
			}, nil
		},
		ToolFindProductByID: func(ctx context.Context, args map[string]any) (contractx.Result, error) {
			id, err := CoerceInt(args, "id")
			if err != nil {
				return nil, err
			}
			products, err := ds.ProductByID(ctx, id)
			if err != nil {
				return nil, err
			}
			rows := make(contractx.Rows, 0, len(products))
			for _, p := range products {
				rows = append(rows, contractx.Row{
					"ProductID":   p.ProductID,
					"ProductName": p.ProductName,
					"SupplierID":  p.SupplierID,
				})
			}
			return rows, nil
		},
		ToolFindOrderSubtotal: func(ctx context.Context, args map[string]any) (contractx.Result, error) {
			id, err := CoerceInt(args, "id")
			if err != nil {
				return nil, err
			}
			subtotals, err := ds.OrderSubtotal(ctx, id)
			if err != nil {
				return nil, err
			}
			rows := make(contractx.Rows, 0, len(subtotals))
			for _, s := range subtotals {
				rows = append(rows, contractx.Row{"Subtotal": s.Subtotal})
			}
			return rows, nil
		},
	}
}
