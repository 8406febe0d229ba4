package codec

import (
	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// headerData is the part of a Map, Vector or Series header shared by the three:
// summary data, local set definitions and the declared entry kind.
type headerData struct {
	fieldDefs   rwf.LocalFieldSetDefDb
	elementDefs rwf.LocalElementSetDefDb
	defs        SetDefinitions
	entryDefs   *SetDefinitions
	summary     loadSlot
	summaryDone bool

	kind       kindBinding
	summaryBuf []byte
	setDefBuf  []byte
}

// rewind forgets the set definitions and summary of the previous decode pass.
// The summary value stays bound for reuse.
func (h *headerData) rewind() {
	h.entryDefs = nil
	h.summaryDone = false
}

// decodeDefs decodes the set definitions declared for entries of kind. They
// stay in scope for the entries and summary of this decode pass only.
func (h *headerData) decodeDefs(enc []byte, kind format.DataType) rwf.Status {
	h.rewind()
	if len(enc) == 0 {
		return rwf.Success
	}

	if st := rwf.DecodeLocalSetDefs(enc, kind, &h.fieldDefs, &h.elementDefs); st != rwf.Success {
		return st
	}
	h.defs = SetDefinitions{Fields: &h.fieldDefs, Elements: &h.elementDefs}
	h.entryDefs = &h.defs

	return rwf.Success
}

// entryScope returns the scope entries of the container are decoded in.
func (h *headerData) entryScope(scope decodeScope) decodeScope {
	return scope.nested(h.entryDefs)
}

// summaryValue decodes the summary on first call.
func (h *headerData) summaryValue(reg *Registry, has bool, enc []byte, kind format.DataType, scope decodeScope) Value {
	if !has {
		return nil
	}
	if !h.summaryDone {
		decodeLoad(reg, &h.summary, kind, enc, h.entryScope(scope))
		h.summaryDone = true
	}

	return h.summary.v
}

// setSummary binds the entry kind to the kind of v and keeps a copy of its
// encoded form for the header.
func (h *headerData) setSummary(op string, v Value) error {
	if v == nil {
		return nilValue(op)
	}
	kind, err := entryKind(op, &h.kind, v, true)
	if err != nil {
		return err
	}
	if kind == format.NoData {
		return errs.New(errs.KindInvalidArgument, op, "summary data cannot be NoData")
	}
	if err := h.kind.check(op, kind); err != nil {
		return err
	}

	data, err := wireBytes(op, v, nil)
	if err != nil {
		return err
	}
	h.summaryBuf = append(h.summaryBuf[:0], data...)
	h.kind.kind = kind

	return nil
}

// setDefinitions encodes defs for the header. Exactly one table must be set;
// it binds the entry kind to FieldList or ElementList.
func (h *headerData) setDefinitions(op string, defs *SetDefinitions) error {
	if defs == nil {
		return nilValue(op)
	}

	var kind format.DataType
	switch {
	case defs.Fields != nil && defs.Elements == nil:
		kind = format.FieldList
	case defs.Elements != nil && defs.Fields == nil:
		kind = format.ElementList
	default:
		return errs.New(errs.KindInvalidArgument, op, "exactly one of Fields and Elements must be set")
	}
	if err := h.kind.check(op, kind); err != nil {
		return err
	}

	var (
		buf []byte
		st  rwf.Status
	)
	if kind == format.FieldList {
		buf, st = rwf.AppendLocalFieldSetDefDb(h.setDefBuf[:0], defs.Fields)
	} else {
		buf, st = rwf.AppendLocalElementSetDefDb(h.setDefBuf[:0], defs.Elements)
	}
	if st != rwf.Success {
		return errs.New(errs.KindInvalidArgument, op, "invalid set definitions: "+st.Text())
	}
	h.setDefBuf = buf
	h.kind.kind = kind

	return nil
}

// resetBuild forgets the build-side header.
func (h *headerData) resetBuild() {
	h.kind = kindBinding{}
	h.summaryBuf = h.summaryBuf[:0]
	h.setDefBuf = h.setDefBuf[:0]
}

// release returns the decoded summary to reg and forgets the decode-side header.
func (h *headerData) release(reg *Registry) {
	h.summary.release(reg)
	h.summaryDone = false
	h.entryDefs = nil
	h.fieldDefs.Clear()
	h.elementDefs.Clear()
	h.resetBuild()
}

// renderSummary writes the summary block of a decoded container.
func renderSummary(w *textWriter, indent int, v Value) {
	if v == nil {
		return
	}
	w.indent(indent).str("SummaryData")
	renderLoad(w, indent, v, "SummaryDataEnd")
}
