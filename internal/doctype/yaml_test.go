package doctype

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doctypes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAML_Valid(t *testing.T) {
	path := writeConfig(t, `
invoice:
  name: Invoice
  required_fields: [invoiceNumber, total]
  optional_fields: [dueDate]
  patterns:
    invoiceNumber: 'Invoice\s*(?:No\.?|Number)[:\s]+([A-Z0-9-]+)'
    total: 'Total[:\s]+\$?([\d,.]+)'
`)

	r, err := LoadYAML(path)
	require.NoError(t, err)

	def, ok := r.Lookup("invoice")
	require.True(t, ok)
	assert.Equal(t, "Invoice", def.Name)
	assert.Equal(t, []string{"invoiceNumber", "total"}, r.ExpectedFields("invoice"))

	// Patterns are case-insensitive unless flags were given explicitly.
	m := def.Patterns["invoiceNumber"].FindStringSubmatch("INVOICE NUMBER: INV-42")
	require.NotNil(t, m)
	assert.Equal(t, "INV-42", m[1])
}

func TestLoadYAML_SchemaRejectsMissingPatterns(t *testing.T) {
	path := writeConfig(t, `
invoice:
  name: Invoice
  required_fields: [invoiceNumber]
`)

	_, err := LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid document type config")
}

func TestLoadYAML_SchemaRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
invoice:
  name: Invoice
  required_fields: [invoiceNumber]
  extra: true
  patterns:
    invoiceNumber: 'Invoice[:\s]+(\w+)'
`)

	_, err := LoadYAML(path)
	require.Error(t, err)
}

func TestLoadYAML_RejectsBadRegexp(t *testing.T) {
	path := writeConfig(t, `
invoice:
  name: Invoice
  required_fields: [invoiceNumber]
  patterns:
    invoiceNumber: '([unclosed'
`)

	_, err := LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `document type "invoice"`)
}

func TestLoadYAML_RejectsPatternForUndeclaredField(t *testing.T) {
	path := writeConfig(t, `
invoice:
  name: Invoice
  required_fields: [invoiceNumber]
  patterns:
    total: 'Total[:\s]+([\d,.]+)'
`)

	_, err := LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared field")
}

func TestLoadYAML_MissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
