package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// CursorFrom extracts the "from" field out of an opaque next/prev token.
// The service returns tokens shaped like "/dogs/search?size=24&from=48";
// everything except the from field is opaque and must not be reconstructed.
// Returns "" when the token carries no from field.
func CursorFrom(token string) string {
	if token == "" {
		return ""
	}

	query := token
	if i := strings.IndexByte(token, '?'); i >= 0 {
		query = token[i+1:]
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	return values.Get("from")
}

// CursorOffset parses the numeric offset a cursor encodes. The offset is only
// used to gate the Next control (offset must stay below the result total);
// the cursor itself is still sent to the service verbatim.
func CursorOffset(cursor string) (int, bool) {
	n, err := strconv.Atoi(cursor)
	if err != nil {
		return 0, false
	}
	return n, true
}
