package querybuilder

// CompileError distinguishes the two caller-facing error kinds a builder
// can raise before any SQL is sent: a plain validation failure (malformed
// options) or an unsupported-operation feature guard (an operator the
// dialect does not support). The CRUD engine maps these to quill.Error's
// KindValidation / KindUnsupportedOperation respectively.
type CompileError struct {
	Unsupported bool
	Msg         string
}

func (e *CompileError) Error() string { return e.Msg }

func validationErr(msg string) error { return &CompileError{Msg: msg} }

func unsupportedErr(msg string) error { return &CompileError{Unsupported: true, Msg: msg} }

// Compiled is the {text, params} a builder produces: ready-to-execute SQL
// text with every caller-supplied value already appended to Params in the
// order its placeholder appears in Text.
type Compiled struct {
	Text   string
	Params []any
}
