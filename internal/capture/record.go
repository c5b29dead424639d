package capture

import (
	"encoding/json"
	"sort"
	"strings"
)

// EmptyBodyPlaceholder is what the page shows when a request carried no
// usable body or query content.
const EmptyBodyPlaceholder = "No body or query parameters received."

// BodyKind discriminates the variants of a captured request body.
type BodyKind int

const (
	// BodyEmpty means no body content was captured (methods without a
	// body, empty payloads, GET with no query string).
	BodyEmpty BodyKind = iota
	// BodyForm is a flat string mapping: query parameters or form fields.
	BodyForm
	// BodyJSON is a successfully parsed JSON document.
	BodyJSON
	// BodyRaw is the unparsed payload text (fallback).
	BodyRaw
)

// Body is the captured request content. Exactly one variant is populated,
// selected by Kind, so the renderer and tests never need type inspection.
type Body struct {
	Kind BodyKind
	Form map[string]string
	JSON any
	Raw  string
}

// EmptyBody returns the zero-content body variant.
func EmptyBody() Body {
	return Body{Kind: BodyEmpty}
}

// FormBody wraps a string mapping; an empty mapping collapses to Empty so
// the placeholder renders instead of "{}".
func FormBody(fields map[string]string) Body {
	if len(fields) == 0 {
		return EmptyBody()
	}
	return Body{Kind: BodyForm, Form: fields}
}

// JSONBody wraps a parsed JSON value.
func JSONBody(v any) Body {
	return Body{Kind: BodyJSON, JSON: v}
}

// RawBody wraps unparsed payload text; empty text collapses to Empty.
func RawBody(text string) Body {
	if text == "" {
		return EmptyBody()
	}
	return Body{Kind: BodyRaw, Raw: text}
}

// IsEmpty reports whether the body renders as the placeholder.
func (b Body) IsEmpty() bool {
	return b.Kind == BodyEmpty
}

// Display returns the text shown in the body block of a capture card.
// It never returns an empty string.
func (b Body) Display() string {
	switch b.Kind {
	case BodyForm:
		keys := make([]string, 0, len(b.Form))
		for k := range b.Form {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(b.Form[k])
		}
		return sb.String()
	case BodyJSON:
		data, err := json.MarshalIndent(b.JSON, "", "  ")
		if err != nil {
			// Values produced by json.Unmarshal always re-marshal.
			return EmptyBodyPlaceholder
		}
		return string(data)
	case BodyRaw:
		return b.Raw
	default:
		return EmptyBodyPlaceholder
	}
}

// HeaderLine is one header name/value pair as displayed, one per line.
type HeaderLine struct {
	Name  string
	Value string
}

// Record is one captured inbound request.
type Record struct {
	ID            string
	Timestamp     string
	ClientAddress string
	UserAgent     string
	Method        string
	Path          string
	Headers       []HeaderLine
	Body          Body
}

// HeaderBlock joins the header lines into the "Name: Value" block shown on
// the page.
func (r Record) HeaderBlock() string {
	lines := make([]string, len(r.Headers))
	for i, h := range r.Headers {
		lines[i] = h.Name + ": " + h.Value
	}
	return strings.Join(lines, "\n")
}
