package querybuilder

import (
	"github.com/quillorm/quill/column"
	"github.com/quillorm/quill/table"
)

// usersWithHidden is a shared fixture table used across this package's
// tests: a normal column, a sensitive column, and a hidden column, so
// visibility-tier projection can be exercised.
func usersWithHidden() *table.Table {
	return table.New("users", []column.Builder{
		column.UUID("id").Primary(),
		column.Text("email").Unique().Sensitive(),
		column.Text("passwordHash").Hidden(),
		column.Text("name"),
	})
}
