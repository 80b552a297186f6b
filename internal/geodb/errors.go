package geodb

import "github.com/rotisserie/eris"

// ErrNotFound signals that a named entity has no matching row. Read-style
// queries return it (or an empty result) rather than failing; resolve-style
// operations wrap it with the entity that could not be resolved.
var ErrNotFound = eris.New("geodb: not found")

// ErrUnsupported signals an operation requested for a geography type that
// lacks the required columns (e.g. demographic breakdowns outside suburb
// level).
var ErrUnsupported = eris.New("geodb: not supported for geography type")
