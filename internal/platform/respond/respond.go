// Package respond renders RFC 9457 problem details for errors raised outside
// Huma operation handlers, such as router-level 404/405 responses and panics.
// Content negotiation between JSON and CBOR mirrors the formats the API serves.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/vercel-playground/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"

	msgNotFound           = "resource not found"
	msgInternalServerErr  = "internal server error"
	msgMethodNotAllowedFn = "method %s not allowed"
)

// problem is the serialized body. Field names follow RFC 9457; the CBOR
// encoder reuses the json tags so both representations stay aligned.
type problem struct {
	Title  string `json:"title,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NotFoundHandler renders a problem response for unmatched routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler renders a problem response for known routes hit with
// an unsupported method, including an Allow header listing the supported ones.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf(msgMethodNotAllowedFn, r.Method))
	}
}

// UnavailableHandler renders a 503 problem response carrying the given detail
// for every request it receives.
func UnavailableHandler(detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusServiceUnavailable, detail)
	}
}

// Recoverer converts panics into problem responses. http.ErrAbortHandler is
// re-panicked so the server can abort the connection as net/http expects. If
// the handler already wrote a header the original response is left untouched.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				logging.LogError(r.Context(), "panic recovered", err, zap.ByteString("stack", debug.Stack()))
				if !rw.wroteHeader {
					writeProblem(rw, r, http.StatusInternalServerError, msgInternalServerErr)
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// responseWriter tracks whether a header has been written so the recoverer
// knows when it is too late to emit a problem response.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	ensureVary(w.Header(), "Origin", "Accept")

	p := problem{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	if selectFormat(r.Header.Get("Accept")) {
		data, err := cbor.Marshal(p)
		if err != nil {
			logging.LogError(r.Context(), "failed to encode problem response", err)
			w.Header().Set("Content-Type", contentTypeProblemJSON)
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", contentTypeProblemCBOR)
		w.WriteHeader(status)
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Type", contentTypeProblemJSON)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		logging.LogError(r.Context(), "failed to encode problem response", err)
	}
}

// ensureVary merges the given header names into any existing Vary values
// without introducing duplicates.
func ensureVary(h http.Header, values ...string) {
	if len(values) == 0 {
		return
	}
	existing := h.Values("Vary")
	seen := make(map[string]struct{}, len(existing)+len(values))
	merged := make([]string, 0, len(existing)+len(values))
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		merged = append(merged, v)
	}
	for _, v := range existing {
		for part := range strings.SplitSeq(v, ",") {
			add(part)
		}
	}
	for _, v := range values {
		add(v)
	}
	h.Set("Vary", strings.Join(merged, ", "))
}

// acceptRange is a single parsed media range from an Accept header.
type acceptRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept parses an Accept header into media ranges. Invalid or
// out-of-range q values fall back to 1.0 per RFC 9110 leniency; when a range
// repeats the q parameter the last occurrence wins.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments := strings.Split(part, ";")
		mediaType := strings.TrimSpace(segments[0])
		if mediaType == "" {
			continue
		}
		q := 1.0
		for _, param := range segments[1:] {
			name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(name), "q") {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || parsed < 0 || parsed > 1 {
				q = 1.0
				continue
			}
			q = parsed
		}
		typ, subtype, ok := strings.Cut(mediaType, "/")
		if !ok {
			subtype = "*"
		}
		ranges = append(ranges, acceptRange{
			typ:     strings.ToLower(strings.TrimSpace(typ)),
			subtype: strings.ToLower(strings.TrimSpace(subtype)),
			q:       q,
		})
	}
	return ranges
}

// selectFormat reports whether the Accept header prefers CBOR over JSON.
// Ranking follows RFC 9110: q value first, specificity as the tie-breaker,
// and q=0 excludes a range entirely. JSON is the default on no preference.
func selectFormat(header string) bool {
	bestQ := -1.0
	bestSpecificity := -1
	bestCBOR := false
	for _, r := range parseAccept(header) {
		if r.q == 0 {
			continue
		}
		useCBOR, specificity, ok := formatFor(r)
		if !ok {
			continue
		}
		if r.q > bestQ || (r.q == bestQ && specificity > bestSpecificity) {
			bestQ = r.q
			bestSpecificity = specificity
			bestCBOR = useCBOR
		}
	}
	if bestQ < 0 {
		return false
	}
	return bestCBOR
}

// formatFor maps a media range onto one of the served formats. Specificity
// grows from full wildcard through type wildcard and concrete types up to
// RFC 9457 problem types.
func formatFor(r acceptRange) (useCBOR bool, specificity int, ok bool) {
	if r.typ == "*" && r.subtype == "*" {
		return false, 0, true
	}
	if r.typ != "application" {
		return false, 0, false
	}
	switch {
	case r.subtype == "*":
		return false, 1, true
	case r.subtype == "json":
		return false, 2, true
	case r.subtype == "cbor":
		return true, 2, true
	case r.subtype == "*+json":
		return false, 2, true
	case r.subtype == "*+cbor":
		return true, 2, true
	case strings.HasSuffix(r.subtype, "+json"):
		return false, 3, true
	case strings.HasSuffix(r.subtype, "+cbor"):
		return true, 3, true
	}
	return false, 0, false
}

// allowedMethods inspects chi's routing context to discover which methods
// match the current path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}

	routePath := rctx.RoutePath
	if routePath == "" {
		if r.URL.RawPath != "" {
			routePath = r.URL.RawPath
		} else {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	methods := []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowed := make([]string, 0, len(methods))
	for _, method := range methods {
		tctx := chi.NewRouteContext()
		if rctx.Routes.Match(tctx, method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
