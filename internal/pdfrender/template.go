package pdfrender

import (
	"bytes"
	"html/template"

	"storefront/internal/domain/model"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.InvoiceNumber}}</title>
</head>
<body>
<h1>Invoice {{.InvoiceNumber}}</h1>
<p>Issued: {{.IssuedAt.Format "02 Jan 2006 15:04"}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Item</th><th>Qty</th><th>Unit Price</th><th>Discount</th><th>Total</th></tr>
{{range .Orders}}<tr>
<td>{{.ProductName}}</td>
<td>{{.Quantity}}</td>
<td>{{.UnitPrice}}</td>
<td>{{.Discount}}</td>
<td>{{.TotalPrice}}</td>
</tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}}</p>
<p>Tax: {{.Tax}}</p>
<p><b>Total: {{.Total}}</b></p>
</body>
</html>
`))

// InvoiceHTML renders the markup fed to the PDF engines and used verbatim
// as the text/html fallback artifact.
func InvoiceHTML(inv model.Invoice) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, inv); err != nil {
		return "", err
	}
	return buf.String(), nil
}
