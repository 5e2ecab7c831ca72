package cache

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Key joins parts with '|'. Callers own the meaning of each position.
func Key(parts ...any) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, part := range parts {
		if i > 0 {
			_ = buf.WriteByte('|')
		}
		switch v := part.(type) {
		case string:
			_, _ = buf.WriteString(v)
		case int:
			_, _ = buf.WriteString(strconv.Itoa(v))
		case bool:
			_, _ = buf.WriteString(strconv.FormatBool(v))
		case interface{ String() string }:
			_, _ = buf.WriteString(v.String())
		default:
			_, _ = buf.WriteString("?")
		}
	}
	return buf.String()
}
