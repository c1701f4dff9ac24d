package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatValue(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestRowsTable(t *testing.T) {
	rows := []*types.Row{
		types.NewRow().Set("id", int64(1)).Set("name", "a"),
		types.NewRow().Set("id", int64(2)).Set("email", nil),
	}

	assert.Equal(t, pterm.TableData{
		{"id", "name", "email"},
		{"1", "a", ""},
		{"2", "", "NULL"},
	}, RowsTable(rows))
}

func TestColumnTable(t *testing.T) {
	assert.Equal(t, pterm.TableData{{"value"}, {"x"}, {"NULL"}},
		ColumnTable("value", []interface{}{"x", nil}))
}

func TestSQLMarkdown(t *testing.T) {
	md := SQLMarkdown("select", "SELECT * FROM t WHERE id = ?", []interface{}{int64(5)})

	assert.Contains(t, md, "## select")
	assert.Contains(t, md, "```sql\nSELECT * FROM t WHERE id = ?\n```")
	assert.Contains(t, md, "| 1 | `5` |")

	assert.NotContains(t, SQLMarkdown("x", "SELECT 1", nil), "| # |")
}

func TestPrintRowCount(t *testing.T) {
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	defer func() { Out = prev }()

	PrintRowCount(1)
	PrintRowCount(3)

	assert.Contains(t, buf.String(), "1 row\n")
	assert.Contains(t, buf.String(), "3 rows\n")
}
