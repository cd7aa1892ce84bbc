package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() map[string]interface{} {
	raw := `{
		"Id": "145",
		"DocNumber": "1045",
		"TxnDate": "2024-03-15",
		"TotalAmt": 350.5,
		"Balance": 0,
		"CurrencyRef": {"value": "USD", "name": "United States Dollar"},
		"CustomerRef": {"value": "58", "name": "Acme Lawn Care"},
		"PurchaseOrderRef": "PO-889",
		"MetaData": {"CreateTime": "2024-03-15T09:30:00-07:00", "LastUpdatedTime": "2024-03-16T10:00:00-07:00"},
		"Line": [
			{
				"Id": "1",
				"DetailType": "SalesItemLineDetail",
				"Amount": 300,
				"Description": "Monthly mowing",
				"SalesItemLineDetail": {
					"ItemRef": {"value": "11", "name": "Mowing"},
					"Qty": 4,
					"UnitPrice": 75,
					"TaxCodeRef": {"value": "TAX"}
				}
			},
			{
				"DetailType": "SubTotalLineDetail",
				"Amount": 300
			}
		]
	}`

	var inv map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		panic(err)
	}
	return inv
}

func TestFlattenInvoice(t *testing.T) {
	row := FlattenInvoice("realm-1", sampleInvoice())

	assert.Equal(t, "realm-1", row["RealmId"])
	assert.Equal(t, "145", row["InvoiceId"])
	assert.Equal(t, "1045", row["DocNumber"])
	assert.Equal(t, "2024-03-15", row["TxnDate"])
	assert.Equal(t, "58", row["CustomerId"])
	assert.Equal(t, "Acme Lawn Care", row["CustomerName"])
	assert.Equal(t, 350.5, row["TotalAmt"])
	assert.Equal(t, "USD", row["Currency"])
	assert.NotNil(t, row["Invoice_json"])

	// every declared column is present
	for _, col := range InvoiceColumns {
		_, ok := row[col]
		assert.True(t, ok, "missing column %s", col)
	}
}

func TestFlattenInvoiceLines(t *testing.T) {
	rows := FlattenInvoiceLines("realm-1", sampleInvoice())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 1, first["LineIndex"])
	assert.Equal(t, "1", first["LineId"])
	assert.Equal(t, "SalesItemLineDetail", first["DetailType"])
	assert.Equal(t, float64(300), first["Amount"])
	assert.Equal(t, "Monthly mowing", first["Description"])
	assert.Equal(t, "11", first["ItemId"])
	assert.Equal(t, "Mowing", first["ItemName"])
	assert.Equal(t, float64(4), first["Qty"])
	assert.Equal(t, float64(75), first["UnitPrice"])
	assert.Equal(t, "TAX", first["TaxCode"])
	assert.Equal(t, "PO-889", first["PurchaseOrderRef"])
	assert.Equal(t, "2024-03-15T09:30:00-07:00", first["InvoiceMeta_CreateTime"])

	// a line without SalesItemLineDetail keeps the full column set, empty
	second := rows[1]
	assert.Equal(t, 2, second["LineIndex"])
	assert.Equal(t, "", second["LineId"])
	assert.Equal(t, "", second["ItemId"])
	assert.Equal(t, "", second["Qty"])
	assert.Equal(t, "SubTotalLineDetail", second["DetailType"])

	for _, col := range InvoiceLineColumns {
		_, ok := second[col]
		assert.True(t, ok, "missing column %s", col)
	}
}

func TestFlattenInvoiceLinesNoLines(t *testing.T) {
	inv := map[string]interface{}{"Id": "9"}
	assert.Empty(t, FlattenInvoiceLines("realm-1", inv))
}

// Exporting the same rows to CSV and JSON must agree on every extracted
// field value; only the raw-blob columns are serialized differently.
func TestCSVJSONRoundTrip(t *testing.T) {
	rows := FlattenInvoiceLines("realm-1", sampleInvoice())
	require.NotEmpty(t, rows)

	var csvBuf bytes.Buffer
	require.NoError(t, WriteCSV(&csvBuf, InvoiceLineColumns, rows))

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteJSON(&jsonBuf, rows))

	// CSV starts with a UTF-8 BOM
	raw := csvBuf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, InvoiceLineColumns, records[0])

	var jsonRows []map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &jsonRows))
	require.Len(t, jsonRows, len(rows))

	rawBlobs := map[string]bool{"Line_json": true, "Invoice_json": true}
	for i, record := range records[1:] {
		for j, col := range InvoiceLineColumns {
			if rawBlobs[col] {
				continue
			}
			assert.Equal(t, cellString(jsonRows[i][col]), record[j],
				"row %d column %s must survive the round trip", i, col)
		}
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "plain", cellString("plain"))
	assert.Equal(t, "350.5", cellString(350.5))
	assert.Equal(t, "300", cellString(float64(300)))
	assert.Equal(t, "2", cellString(2))
	assert.Equal(t, `{"value":"TAX"}`, cellString(map[string]interface{}{"value": "TAX"}))
}
