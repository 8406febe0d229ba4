package codec

import (
	"encoding/hex"
	"strings"
)

const indentUnit = "    "

// textWriter accumulates the display form of containers and their entries.
type textWriter struct {
	b strings.Builder
}

func (w *textWriter) indent(n int) *textWriter {
	for range n {
		w.b.WriteString(indentUnit)
	}

	return w
}

func (w *textWriter) str(s string) *textWriter {
	w.b.WriteString(s)
	return w
}

// attr writes ` name="value"`.
func (w *textWriter) attr(name, value string) *textWriter {
	w.b.WriteByte(' ')
	w.b.WriteString(name)
	w.b.WriteString(`="`)
	w.b.WriteString(value)
	w.b.WriteByte('"')

	return w
}

func (w *textWriter) nl() *textWriter {
	w.b.WriteByte('\n')
	return w
}

func (w *textWriter) String() string {
	return w.b.String()
}

// blockRenderer is implemented by loads rendered as a nested block rather than
// a value attribute.
type blockRenderer interface {
	render(w *textWriter, indent int)
}

// renderLoad finishes an entry line whose key attributes are written. Scalars
// add a value attribute; blocks are written one level deeper and closed with
// endTag.
func renderLoad(w *textWriter, indent int, v Value, endTag string) {
	if v == nil {
		w.attr("dataType", "NoData").nl()
		return
	}

	w.attr("dataType", v.DataType().String())
	if block, ok := v.(blockRenderer); ok {
		w.nl()
		block.render(w, indent+1)
		w.indent(indent).str(endTag).nl()

		return
	}
	w.attr("value", v.String()).nl()
}

// hexBytes renders b as space separated hex pairs: "00 00 04 d2".
func hexBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	enc := hex.EncodeToString(b)
	var sb strings.Builder
	sb.Grow(len(enc) + len(b) - 1)
	for i := 0; i < len(enc); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(enc[i : i+2])
	}

	return sb.String()
}
