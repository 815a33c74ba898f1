// Package quill is a typed relational data-access engine.
//
// It turns a code-defined schema (tables, columns with type/visibility/
// default metadata, relations) into a safe set of CRUD operations — read,
// write, filter, order, paginate, aggregate, include related rows, raw SQL
// — executed against one of several SQL dialects, behind a uniform
// result/error contract.
//
// # Building a schema
//
// Columns are built with the immutable builders in [github.com/quillorm/quill/column]:
//
//	users := table.New("users", []column.Builder{
//		column.UUID("id").Primary(column.GenerateWith(column.GenerateUUID)),
//		column.Text("email").Unique().Sensitive(),
//		column.Text("password_hash").Hidden(),
//		column.Text("name"),
//	})
//
// Relations and the model registry live in [github.com/quillorm/quill/relation]
// and [github.com/quillorm/quill/registry]. A client is assembled with
// [NewClient].
package quill
