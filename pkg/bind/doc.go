// Package bind resolves handler parameters from HTTP requests.
//
// A handler is an ordinary function. Its parameters are either reserved
// framework objects (matched by registered type, received directly) or
// data structs whose exported fields bind from the request. The binding
// plan is built once per handler at registration by [Binder.Spec] and
// reused for every request.
//
// # Resolution order
//
// Each data-struct field tries sources in a fixed order and takes the
// first hit:
//
//  1. Reserved object, for fields of a registered framework type
//     (or any-typed fields whose name matches a registered fallback).
//  2. Path capture of the same name.
//  3. For struct-typed fields, a nested record built from merged
//     query and form values.
//  4. Cookie, only for [Cookie] wrapped fields.
//  5. Header, only for [Header] wrapped fields; underscores in the
//     binding name become hyphens ("user_agent" reads User-Agent).
//  6. Query parameter. Slice fields collect every same-named value.
//  7. Body field: a form field, or a top-level member of a JSON
//     document, chosen by the request's Content-Type.
//  8. The default tag.
//  9. Otherwise resolution fails with [UnresolvedParameterError].
//
// Absent booleans read as false, absent slices as empty, and absent
// pointer fields as nil, so checkboxes and optional values need no
// default tags. A value that is present but will not convert raises
// [TypeCoercionError] instead. Both error types carry StatusCode 422.
//
// Field names default to the lowercased Go name; the param tag
// overrides it and "-" skips the field:
//
//	type search struct {
//	    Query string `param:"q"`
//	    Page  int    `default:"1"`
//	    Tags  []string
//	}
//
// # Bodies
//
// The body is parsed lazily, at most once per request, with exactly one
// strategy picked from the Content-Type: urlencoded and multipart bodies
// become form fields (multipart also exposes *multipart.FileHeader and
// []*multipart.FileHeader fields), JSON bodies bind per top-level key.
// GET and HEAD requests never read a body.
package bind
