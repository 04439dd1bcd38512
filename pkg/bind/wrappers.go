package bind

// Cookie marks a struct field as bound from the request cookie whose name
// matches the field's binding name. Cookies are never consulted for plain
// fields; the wrapper is the explicit opt-in.
//
//	type prefs struct {
//	    Theme bind.Cookie[string] `param:"theme" default:"light"`
//	}
type Cookie[T any] struct {
	Value T
}

func (Cookie[T]) bindSource() source { return sourceCookie }

// Header marks a struct field as bound from the request header whose name
// is the field's binding name with underscores translated to hyphens
// ("user_agent" reads User-Agent). Like cookies, headers require the
// explicit wrapper.
type Header[T any] struct {
	Value T
}

func (Header[T]) bindSource() source { return sourceHeader }

// sourced is implemented by the wrapper types to reveal their source at
// registration time.
type sourced interface {
	bindSource() source
}
