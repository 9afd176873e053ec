package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/phrazzld/relay-api/internal/api/apierr"
	"github.com/phrazzld/relay-api/internal/api/shared"
)

// Content types selecting a body parser.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Limits applied to url-encoded bodies.
const (
	maxFormParams = 1000
	maxFormDepth  = 5
)

// JSONBody decodes application/json request bodies into a map stored on the
// request context. Malformed JSON and non-object documents abort the request
// with a parse error.
func JSONBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasContentType(r, ContentTypeJSON) {
				next.ServeHTTP(w, r)
				return
			}

			data, err := readBody(w, r, maxBytes)
			if err != nil {
				Abort(r, err)
				return
			}
			if len(bytes.TrimSpace(data)) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var doc interface{}
			if err := json.Unmarshal(data, &doc); err != nil {
				Abort(r, apierr.Parse("Invalid JSON in request body", err))
				return
			}
			body, ok := doc.(map[string]interface{})
			if !ok {
				Abort(r, apierr.Parse("Request body must be a JSON object", nil))
				return
			}

			next.ServeHTTP(w, withParsedBody(r, body, data))
		})
	}
}

// FormBody decodes application/x-www-form-urlencoded bodies. Bracketed keys
// build nested objects (user[name]=a) and a trailing [] or a repeated key
// builds a list.
func FormBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasContentType(r, ContentTypeForm) {
				next.ServeHTTP(w, r)
				return
			}

			data, err := readBody(w, r, maxBytes)
			if err != nil {
				Abort(r, err)
				return
			}

			body, err := ParseNestedForm(string(data))
			if err != nil {
				Abort(r, err)
				return
			}

			next.ServeHTTP(w, withParsedBody(r, body, data))
		})
	}
}

// ParseNestedForm parses a url-encoded string into nested maps.
func ParseNestedForm(raw string) (map[string]interface{}, error) {
	if strings.Count(raw, "&")+1 > maxFormParams {
		return nil, apierr.TooLarge(errors.New("too many parameters"))
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, apierr.Parse("Invalid form body", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	body := make(map[string]interface{}, len(values))
	for _, k := range keys {
		setNested(body, splitFormKey(k), values[k])
	}
	return body, nil
}

// splitFormKey turns "a[b][c]" into [a b c] and "a[]" into [a ""]. Keys that
// are not well formed are kept literally. Segments past maxFormDepth are
// folded into one literal segment.
func splitFormKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if len(segments) > maxFormDepth {
			segments = append(segments, rest)
			return segments
		}
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}
	return segments
}

func setNested(node map[string]interface{}, path []string, values []string) {
	for i, seg := range path {
		last := i == len(path)-1
		if last {
			node[seg] = leafValue(node[seg], values, false)
			return
		}
		if i == len(path)-2 && path[i+1] == "" {
			node[seg] = leafValue(node[seg], values, true)
			return
		}
		child, ok := node[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[seg] = child
		}
		node = child
	}
}

func leafValue(existing interface{}, values []string, forceList bool) interface{} {
	if !forceList && len(values) == 1 {
		if _, isMap := existing.(map[string]interface{}); !isMap {
			return values[0]
		}
		return existing
	}
	list, _ := existing.([]interface{})
	for _, v := range values {
		list = append(list, v)
	}
	return list
}

func hasContentType(r *http.Request, want string) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, want)
}

func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apierr.TooLarge(err)
		}
		return nil, apierr.Parse("Failed to read request body", err)
	}
	return data, nil
}

// withParsedBody stores body on the context and rewinds r.Body so that
// downstream handlers can still read the raw bytes.
func withParsedBody(r *http.Request, body map[string]interface{}, raw []byte) *http.Request {
	r = r.WithContext(shared.WithBody(r.Context(), body))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return r
}
