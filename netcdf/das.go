package netcdf

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/noaa-psl/cefidata"
)

// opendapMetadata fetches the Dataset Attribute Structure for an OPeNDAP
// endpoint and extracts its global attributes.
func (s *Service) opendapMetadata(ctx context.Context, url string) (cefidata.Metadata, error) {
	data, err := s.fetcher.Fetch(ctx, url+".das")
	if err != nil {
		return nil, cefidata.Errorf(cefidata.EUNAVAILABLE, "failed to access OPeNDAP dataset %s: %v", url, err)
	}
	return parseDAS(data)
}

// parseDAS extracts the NC_GLOBAL attribute container from a DAS document.
// Attribute containers belonging to individual variables are skipped.
func parseDAS(data []byte) (cefidata.Metadata, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	metadata := cefidata.Metadata{}
	first := true
	depth := 0
	inGlobal := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			if !strings.HasPrefix(line, "Attributes") {
				return nil, cefidata.Errorf(cefidata.EINVALID, "not a DAS document")
			}
			first = false
		}

		switch {
		case strings.HasSuffix(line, "{"):
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			depth++
			if depth == 2 && name == "NC_GLOBAL" {
				inGlobal = true
			}
		case line == "}":
			depth--
			if depth < 2 {
				inGlobal = false
			}
		case inGlobal && depth == 2:
			if attr, ok := parseDASLine(line); ok {
				metadata = append(metadata, attr)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, cefidata.Errorf(cefidata.EINVALID, "invalid DAS document: %v", err)
	}
	if first {
		return nil, cefidata.Errorf(cefidata.EINVALID, "not a DAS document")
	}

	return metadata, nil
}

// parseDASLine parses one "Type name value;" attribute declaration.
func parseDASLine(line string) (cefidata.Attribute, bool) {
	line = strings.TrimSuffix(line, ";")

	typ, rest := cutToken(line)
	name, valueText := cutToken(rest)
	if name == "" {
		return cefidata.Attribute{}, false
	}

	return cefidata.Attribute{Name: name, Value: parseDASValue(typ, valueText)}, true
}

// cutToken splits off the first whitespace-delimited token.
func cutToken(s string) (token, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

// parseDASValue converts the value text of a DAS attribute into a Go value.
// Comma-separated lists become []any; single values stay scalar.
func parseDASValue(typ, text string) any {
	switch typ {
	case "String", "Url":
		segs := quotedSegments(text)
		if len(segs) == 0 {
			return text
		}
		if len(segs) == 1 {
			return unquoteDAS(segs[0])
		}
		values := make([]any, len(segs))
		for i, seg := range segs {
			values[i] = unquoteDAS(seg)
		}
		return values
	default:
		parts := strings.Split(text, ",")
		values := make([]any, 0, len(parts))
		for _, part := range parts {
			values = append(values, parseDASNumber(typ, strings.TrimSpace(part)))
		}
		if len(values) == 1 {
			return values[0]
		}
		return values
	}
}

// quotedSegments returns the double-quoted segments of text, quotes
// included, honoring backslash escapes.
func quotedSegments(text string) []string {
	var segs []string
	start := -1
	escaped := false
	for i, r := range text {
		switch {
		case start < 0:
			if r == '"' {
				start = i
			}
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			segs = append(segs, text[start:i+1])
			start = -1
		}
	}
	return segs
}

// unquoteDAS removes the quotes around a DAS string value, resolving
// backslash escapes where possible.
func unquoteDAS(s string) string {
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return strings.Trim(s, `"`)
}

// parseDASNumber converts one numeric DAS value. Unparseable values are
// kept as strings.
func parseDASNumber(typ, text string) any {
	switch typ {
	case "Byte", "Int16", "UInt16", "Int32", "UInt32":
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v
		}
	default:
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v
		}
	}
	return text
}
