package capture

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the display format for capture times.
const TimestampLayout = "2006-01-02 15:04:05"

// multipartMaxMemory bounds in-memory multipart parsing, matching the
// net/http default.
const multipartMaxMemory = 32 << 20

// Extract builds a Record from an inbound request. It is total: every
// request yields a record, and any parse failure degrades to a less
// structured body variant instead of surfacing an error.
//
// routePath is the matched wildcard segment; it is normalized so the
// resulting path always begins with "/".
func Extract(r *http.Request, routePath string) Record {
	return extractAt(r, routePath, time.Now())
}

// extractAt is Extract with an injectable clock for tests.
func extractAt(r *http.Request, routePath string, now time.Time) Record {
	path := routePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	userAgent := r.Header.Get("User-Agent")
	if userAgent == "" {
		userAgent = "N/A"
	}

	clientAddr := r.Header.Get("X-Forwarded-For")
	if clientAddr == "" {
		clientAddr = r.RemoteAddr
	}

	return Record{
		ID:            uuid.NewString(),
		Timestamp:     now.Format(TimestampLayout),
		ClientAddress: clientAddr,
		UserAgent:     userAgent,
		Method:        r.Method,
		Path:          path,
		Headers:       headerLines(r.Header),
		Body:          extractBody(r),
	}
}

// headerLines flattens the header map into display lines. net/http
// canonicalizes names into a map and discards wire order, so names are
// sorted for a deterministic listing; values within a name keep their
// received order.
func headerLines(h http.Header) []HeaderLine {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []HeaderLine
	for _, name := range names {
		for _, value := range h[name] {
			lines = append(lines, HeaderLine{Name: name, Value: value})
		}
	}
	return lines
}

// extractBody applies the method-dependent body policy: GET captures the
// query string, body-bearing methods try JSON, then form fields, then raw
// text, and everything else stays empty.
func extractBody(r *http.Request) Body {
	switch r.Method {
	case http.MethodGet:
		return FormBody(firstValues(r.URL.Query()))
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return extractPayload(r)
	default:
		return EmptyBody()
	}
}

func extractPayload(r *http.Request) Body {
	if isJSONContentType(r.Header.Get("Content-Type")) {
		raw := readAll(r.Body)
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			// Malformed JSON keeps the raw payload.
			return RawBody(raw)
		}
		return JSONBody(v)
	}

	// ParseMultipartForm falls through to ParseForm for urlencoded
	// bodies, so one call covers both encodings.
	if err := r.ParseMultipartForm(multipartMaxMemory); err == nil || err == http.ErrNotMultipart {
		if len(r.PostForm) > 0 {
			return FormBody(firstValues(r.PostForm))
		}
	}

	return RawBody(readAll(r.Body))
}

// isJSONContentType reports whether the declared media type is JSON,
// including structured suffixes like application/problem+json.
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// firstValues keeps the first value per key, mirroring the flat mapping
// the page displays.
func firstValues(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		} else {
			out[k] = ""
		}
	}
	return out
}

// readAll drains the body, treating any read error as end of content.
// The capture path never fails on a broken payload.
func readAll(rc io.Reader) string {
	if rc == nil {
		return ""
	}
	data, _ := io.ReadAll(rc)
	return string(data)
}
