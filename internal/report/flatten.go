// report/flatten.go
package report

// InvoiceColumns is the fixed CSV column set for the per-invoice report
var InvoiceColumns = []string{
	"RealmId",
	"InvoiceId",
	"DocNumber",
	"TxnDate",
	"CustomerId",
	"CustomerName",
	"TotalAmt",
	"Balance",
	"Currency",
	"CreateTime",
	"LastUpdatedTime",
	"Invoice_json",
}

// InvoiceLineColumns is the fixed CSV column set for the per-line report.
// Extracted convenience fields come first, raw blobs last.
var InvoiceLineColumns = []string{
	"RealmId",
	"InvoiceId",
	"DocNumber",
	"TxnDate",
	"CustomerId",
	"CustomerName",
	"PurchaseOrderRef",
	"InvoiceMeta_CreateTime",
	"InvoiceMeta_LastUpdatedTime",
	"LineIndex",
	"LineId",
	"DetailType",
	"Amount",
	"Description",
	"ItemId",
	"ItemName",
	"Qty",
	"UnitPrice",
	"TaxCode",
	"Line_json",
	"Invoice_json",
}

// FlattenInvoice produces one row per invoice with extracted convenience
// fields plus the raw invoice preserved under Invoice_json.
func FlattenInvoice(realmID string, invoice map[string]interface{}) map[string]interface{} {
	customerRef := subMap(invoice, "CustomerRef")
	currencyRef := subMap(invoice, "CurrencyRef")
	meta := subMap(invoice, "MetaData")

	return map[string]interface{}{
		"RealmId":         realmID,
		"InvoiceId":       field(invoice, "Id"),
		"DocNumber":       field(invoice, "DocNumber"),
		"TxnDate":         field(invoice, "TxnDate"),
		"CustomerId":      field(customerRef, "value"),
		"CustomerName":    field(customerRef, "name"),
		"TotalAmt":        field(invoice, "TotalAmt"),
		"Balance":         field(invoice, "Balance"),
		"Currency":        field(currencyRef, "value"),
		"CreateTime":      field(meta, "CreateTime"),
		"LastUpdatedTime": field(meta, "LastUpdatedTime"),
		"Invoice_json":    invoice,
	}
}

// FlattenInvoiceLines produces one row per invoice line. Item fields are
// extracted from SalesItemLineDetail when present, empty otherwise.
func FlattenInvoiceLines(realmID string, invoice map[string]interface{}) []map[string]interface{} {
	var rows []map[string]interface{}

	customerRef := subMap(invoice, "CustomerRef")
	meta := subMap(invoice, "MetaData")

	lines, ok := invoice["Line"].([]interface{})
	if !ok {
		return rows
	}

	for idx, raw := range lines {
		line, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		salesDetail := subMap(line, "SalesItemLineDetail")
		itemRef := subMap(salesDetail, "ItemRef")
		taxCodeRef := subMap(salesDetail, "TaxCodeRef")

		rows = append(rows, map[string]interface{}{
			// Parent invoice identifiers
			"RealmId":      realmID,
			"InvoiceId":    field(invoice, "Id"),
			"DocNumber":    field(invoice, "DocNumber"),
			"TxnDate":      field(invoice, "TxnDate"),
			"CustomerId":   field(customerRef, "value"),
			"CustomerName": field(customerRef, "name"),

			// Invoice-level context
			"PurchaseOrderRef":            field(invoice, "PurchaseOrderRef"),
			"InvoiceMeta_CreateTime":      field(meta, "CreateTime"),
			"InvoiceMeta_LastUpdatedTime": field(meta, "LastUpdatedTime"),

			// Line identifiers, 1-based ordering
			"LineIndex": idx + 1,
			"LineId":    field(line, "Id"),

			// Common line fields
			"DetailType":  field(line, "DetailType"),
			"Amount":      field(line, "Amount"),
			"Description": field(line, "Description"),

			// SalesItemLineDetail fields
			"ItemId":    field(itemRef, "value"),
			"ItemName":  field(itemRef, "name"),
			"Qty":       field(salesDetail, "Qty"),
			"UnitPrice": field(salesDetail, "UnitPrice"),
			"TaxCode":   field(taxCodeRef, "value"),

			// Raw objects
			"Line_json":    line,
			"Invoice_json": invoice,
		})
	}

	return rows
}

// field returns the value for key, or "" when absent or nil, so every row
// carries the full column set.
func field(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return ""
}

func subMap(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]interface{})
	return sub
}
