package upstream

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/harvester/internal/credentials"
	"github.com/starford/harvester/internal/models"
)

const invoiceColumns = "Id, DocNumber, TxnDate, TotalAmt, Balance, CustomerRef, ShipDate, ShipMethodRef, Line"

// Quote escapes a literal for the query language.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func invoices(r QueryResult) []models.Invoice   { return r.Invoice }
func customers(r QueryResult) []models.Customer { return r.Customer }

// InvoicesForCustomer returns every invoice of customerID dated within
// [from, to], oldest first.
func (c *Client) InvoicesForCustomer(ctx context.Context, creds *credentials.Credentials, customerID, from, to string) ([]models.Invoice, *credentials.Credentials, error) {
	base := fmt.Sprintf("SELECT %s FROM Invoice WHERE CustomerRef = %s AND TxnDate >= %s AND TxnDate <= %s ORDER BY TxnDate",
		invoiceColumns, Quote(customerID), Quote(from), Quote(to))
	return paginate(ctx, c, creds, base, invoices)
}

// InvoicesInWindow returns every invoice dated within [from, to] regardless
// of customer, oldest first.
func (c *Client) InvoicesInWindow(ctx context.Context, creds *credentials.Credentials, from, to string) ([]models.Invoice, *credentials.Credentials, error) {
	base := fmt.Sprintf("SELECT %s FROM Invoice WHERE TxnDate >= %s AND TxnDate <= %s ORDER BY TxnDate",
		invoiceColumns, Quote(from), Quote(to))
	return paginate(ctx, c, creds, base, invoices)
}

// CustomersNamed returns customers whose display name equals name.
func (c *Client) CustomersNamed(ctx context.Context, creds *credentials.Credentials, name string) ([]models.Customer, *credentials.Credentials, error) {
	res, next, err := c.Query(ctx, creds, "SELECT Id, DisplayName FROM Customer WHERE DisplayName = "+Quote(name))
	return res.Customer, next, err
}

// CustomersContaining returns customers whose display name contains part.
func (c *Client) CustomersContaining(ctx context.Context, creds *credentials.Credentials, part string) ([]models.Customer, *credentials.Credentials, error) {
	res, next, err := c.Query(ctx, creds, "SELECT Id, DisplayName FROM Customer WHERE DisplayName LIKE "+Quote("%"+part+"%"))
	return res.Customer, next, err
}

// CustomerScan returns the first ScanLimit directory entries.
func (c *Client) CustomerScan(ctx context.Context, creds *credentials.Credentials) ([]models.Customer, *credentials.Credentials, error) {
	res, next, err := c.Query(ctx, creds, fmt.Sprintf("SELECT Id, DisplayName FROM Customer MAXRESULTS %d", c.scanLimit))
	return res.Customer, next, err
}

// AllCustomers pages through the whole customer directory.
func (c *Client) AllCustomers(ctx context.Context, creds *credentials.Credentials) ([]models.Customer, *credentials.Credentials, error) {
	return paginate(ctx, c, creds, "SELECT Id, DisplayName FROM Customer", customers)
}
