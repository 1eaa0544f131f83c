package logging

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

const (
	traceparentHeader = "traceparent"
	vercelIDHeader    = "x-vercel-id"
)

// traceparent per W3C Trace Context: version, trace ID, parent span ID and
// flags as dash-separated hex, e.g.
// 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01.
var traceHeaderRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

func loggerForRequest(base *zap.Logger, header, vercelID, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := traceFields(header)
	if vercelID != "" {
		fields = append(fields, zap.String("vercelId", vercelID))
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func traceFields(header string) []zap.Field {
	matches := traceHeaderRe.FindStringSubmatch(header)
	if len(matches) != 5 {
		return nil
	}
	// The sampled decision is bit 0 of the flags byte, not the whole byte.
	flags, err := strconv.ParseUint(matches[4], 16, 8)
	if err != nil {
		return nil
	}

	return []zap.Field{
		zap.String("trace", matches[2]),
		zap.String("spanId", matches[3]),
		zap.Bool("traceSampled", flags&0x01 == 0x01),
	}
}

func traceID(header string) string {
	matches := traceHeaderRe.FindStringSubmatch(header)
	if len(matches) != 5 {
		return ""
	}
	return matches[2]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
