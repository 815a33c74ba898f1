package crud

import (
	"context"

	"github.com/quillorm/quill/column"
	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/relation"
	"github.com/quillorm/quill/sqlconv"
	"github.com/quillorm/quill/table"
)

// fakeCall records one invocation of a fakeQueryFn.
type fakeCall struct {
	Text   string
	Params []any
}

// fakeQueryFn is a scripted QueryFn stand-in: each call consumes the next
// queued response in order, mirroring the "in-memory fake for tests" the
// QueryFn contract explicitly allows.
type fakeQueryFn struct {
	calls     []fakeCall
	responses []sqlconv.Result
	errs      []error
}

func (f *fakeQueryFn) fn() sqlconv.QueryFn {
	return func(_ context.Context, text string, params []any) (sqlconv.Result, error) {
		f.calls = append(f.calls, fakeCall{Text: text, Params: params})
		i := len(f.calls) - 1
		var err error
		if i < len(f.errs) {
			err = f.errs[i]
		}
		if i < len(f.responses) {
			return f.responses[i], err
		}
		return sqlconv.Result{}, err
	}
}

func usersTable() *table.Table {
	return table.New("users", []column.Builder{
		column.UUID("id").Primary(column.GenerateWith(column.GenerateUUID)),
		column.Text("email").Unique(),
		column.Text("name"),
		column.Boolean("active").Default(true),
		column.TimestampTZ("createdAt").Default(column.Now).ReadOnly(),
		column.TimestampTZ("updatedAt").Default(column.Now).AutoUpdate(),
	})
}

func postsTable() *table.Table {
	return table.New("posts", []column.Builder{
		column.UUID("id").Primary(column.GenerateWith(column.GenerateUUID)),
		column.UUID("authorId"),
		column.Text("title"),
	})
}

func newTestEngine(tbl *table.Table, q *fakeQueryFn) *Engine {
	return New(dialect.NewPostgres(), q.fn(), Model{Table: tbl}, nil, nil)
}

func usersWithPostsEngines(users, posts *fakeQueryFn) (*Engine, *Engine) {
	usersTbl := usersTable()
	postsTbl := postsTable()

	usersEngine := newTestEngine(usersTbl, users)
	postsEngine := newTestEngine(postsTbl, posts)

	usersEngine.Model.Relations = map[string]relation.Relation{
		"posts": relation.Many(func() *table.Table { return postsTbl }, "authorId").Relation(),
	}
	postsEngine.Model.Relations = map[string]relation.Relation{
		"author": relation.One(func() *table.Table { return usersTbl }, "authorId"),
	}

	usersEngine.Resolve = func(name string) (*Engine, relation.Def, bool) {
		r, ok := usersEngine.Model.Relations[name]
		if !ok {
			return nil, relation.Def{}, false
		}
		return postsEngine, r.Descriptor(), true
	}
	postsEngine.Resolve = func(name string) (*Engine, relation.Def, bool) {
		r, ok := postsEngine.Model.Relations[name]
		if !ok {
			return nil, relation.Def{}, false
		}
		return usersEngine, r.Descriptor(), true
	}
	return usersEngine, postsEngine
}
