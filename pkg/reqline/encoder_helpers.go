package reqline

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

func appendLF(buf []byte) []byte {
	return append(buf, '\n')
}

// appendRequestLine appends "METHOD URL HTTP/1.1\n" to buf.
func appendRequestLine(buf []byte, method, url string) []byte {
	buf = append(buf, method...)
	buf = append(buf, ' ')
	buf = append(buf, url...)
	buf = append(buf, ' ')
	buf = append(buf, Version...)
	return appendLF(buf)
}

// appendHeader appends "Key: Value\n" to buf.
func appendHeader(buf []byte, key, value string) []byte {
	buf = append(buf, key...)
	buf = append(buf, ':', ' ')
	buf = append(buf, value...)
	return appendLF(buf)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkMarshalable rejects requests whose text form would parse differently.
func checkMarshalable(req *ParsedRequest) error {
	if req == nil {
		return newFormatError("request is nil", 0)
	}
	if strings.ContainsAny(req.Method, " \r\n") {
		return newFormatError(fmt.Sprintf("method %q contains a space or line break", req.Method), 0)
	}
	if strings.ContainsAny(req.URL, " \r\n") {
		return newFormatError(fmt.Sprintf("url %q contains a space or line break", req.URL), 0)
	}
	for k, v := range req.Headers {
		if strings.ContainsAny(k, ":\r\n") || k != strings.TrimLeftFunc(k, unicode.IsSpace) {
			return newFormatError(fmt.Sprintf("header name %q cannot be rendered", k), 0)
		}
		if strings.ContainsAny(v, ":\r\n") || v != strings.TrimSpace(v) {
			return newFormatError(fmt.Sprintf("header %q value %q cannot be rendered", k, v), 0)
		}
	}
	return nil
}
