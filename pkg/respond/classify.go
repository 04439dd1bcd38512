package respond

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"

	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/render"
)

// Classify turns a handler's return value into a response envelope.
// reactive is the request's marker state (datastar.IsReactive); the
// function itself is pure and never touches the transport.
//
// Markup defaults are conservative: a plain client always receives a
// full page unless the handler marked the node with Fragment, and a
// reactive client receives merge frames unless the tree is a complete
// document or marked with FullPage.
func Classify(reactive bool, v any) (*Envelope, error) {
	switch val := v.(type) {
	case nil:
		return &Envelope{Kind: KindPassthrough, Status: http.StatusNoContent}, nil

	case *Envelope:
		return val, nil

	case Redirection:
		return &Envelope{
			Kind:           KindRedirect,
			Location:       val.Location,
			ClientRedirect: reactive,
			Vary:           true,
		}, nil

	case Page:
		return &Envelope{Kind: KindFullPage, Node: val.Node}, nil

	case Partial:
		if reactive {
			return &Envelope{Kind: KindFragments, Node: val.Node, Vary: true}, nil
		}
		return &Envelope{Kind: KindFullPage, Node: val.Node, Partial: true, Vary: true}, nil

	case *html.Node:
		return classifyNode(reactive, val), nil

	case html.Component:
		return classifyNode(reactive, &html.Node{Kind: html.KindComponent, Comp: val}), nil

	case datastar.StreamFunc:
		return &Envelope{Kind: KindFragments, Producer: val}, nil

	case func(*datastar.Stream) error:
		return &Envelope{Kind: KindFragments, Producer: val}, nil

	case HeaderItem:
		e := &Envelope{Kind: KindPassthrough, Status: http.StatusNoContent, Header: http.Header{}}
		e.Header.Add(val.Key, val.Value)
		return e, nil

	case []any:
		return classifyMixed(reactive, val)

	case string:
		return &Envelope{
			Kind:        KindPassthrough,
			Status:      http.StatusOK,
			ContentType: "text/html; charset=utf-8",
			Body:        []byte(val),
		}, nil

	case []byte:
		return &Envelope{
			Kind:        KindPassthrough,
			Status:      http.StatusOK,
			ContentType: "application/octet-stream",
			Body:        val,
		}, nil

	case io.Reader:
		return &Envelope{Kind: KindPassthrough, Status: http.StatusOK, Reader: val}, nil

	case http.Handler:
		return &Envelope{Kind: KindPassthrough, Handler: val}, nil

	case error:
		return nil, &UnsupportedReturnValueError{Value: v}
	}

	return classifyData(v)
}

// classifyNode applies the marker-dependent default for bare markup.
func classifyNode(reactive bool, n *html.Node) *Envelope {
	if render.IsFullPage(n) {
		return &Envelope{Kind: KindFullPage, Node: n}
	}
	if reactive {
		return &Envelope{Kind: KindFragments, Node: n, Vary: true}
	}
	return &Envelope{Kind: KindFullPage, Node: n, Vary: true}
}

// classifyMixed handles tuple-style returns: nodes plus header items,
// or a redirect plus header items.
func classifyMixed(reactive bool, items []any) (*Envelope, error) {
	var header http.Header
	var redirect *Redirection
	var nodes []*html.Node

	for _, item := range items {
		switch it := item.(type) {
		case nil:
		case HeaderItem:
			if header == nil {
				header = http.Header{}
			}
			header.Add(it.Key, it.Value)
		case Redirection:
			redirect = &it
		case *html.Node:
			nodes = append(nodes, it)
		case html.Component:
			nodes = append(nodes, &html.Node{Kind: html.KindComponent, Comp: it})
		default:
			return nil, &UnsupportedReturnValueError{Value: item}
		}
	}

	switch {
	case redirect != nil:
		e := &Envelope{
			Kind:           KindRedirect,
			Location:       redirect.Location,
			ClientRedirect: reactive,
			Header:         header,
			Vary:           true,
		}
		return e, nil
	case len(nodes) == 1:
		e := classifyNode(reactive, nodes[0])
		e.Header = header
		return e, nil
	case len(nodes) > 1:
		e := classifyNode(reactive, &html.Node{Kind: html.KindGroup, Children: nodes})
		e.Header = header
		return e, nil
	case header != nil:
		return &Envelope{Kind: KindPassthrough, Status: http.StatusNoContent, Header: header}, nil
	}
	return nil, &UnsupportedReturnValueError{Value: items}
}

// classifyData serializes struct, map, and slice returns as JSON.
func classifyData(v any) (*Envelope, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, &UnsupportedReturnValueError{Value: v}
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		body, err := json.Marshal(v)
		if err != nil {
			return nil, &UnsupportedReturnValueError{Value: v}
		}
		return &Envelope{
			Kind:        KindPassthrough,
			Status:      http.StatusOK,
			ContentType: "application/json; charset=utf-8",
			Body:        body,
		}, nil
	}
	return nil, &UnsupportedReturnValueError{Value: v}
}
