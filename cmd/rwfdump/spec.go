package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/omm/codec"
	"github.com/arloliu/omm/dictionary"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// node is one value of an encode spec. The same shape describes a top-level
// container, an entry of a FieldList or ElementList, a Map row and a Series
// row:
//
//	type: Map
//	keyType: Ascii
//	entries:
//	  - key: IBM.N
//	    action: Add
//	    payload:
//	      type: FieldList
//	      entries:
//	        - field: BID
//	          value: "39.90"
//	        - fid: 25
//	          type: Real
//	          value: "39.94"
type node struct {
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`
	FID     *int16 `yaml:"fid"`
	Field   string `yaml:"field"`
	Key     string `yaml:"key"`
	KeyType string `yaml:"keyType"`
	Action  string `yaml:"action"`
	Value   string `yaml:"value"`
	Text    string `yaml:"text"`
	Hint    string `yaml:"hint"`
	Blank   bool   `yaml:"blank"`
	Entries []node `yaml:"entries"`
	Payload *node  `yaml:"payload"`
}

func parseSpec(r io.Reader) (node, error) {
	var n node
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&n); err != nil {
		return node{}, fmt.Errorf("parse encode spec: %w", err)
	}
	if n.Type == "" {
		return node{}, fmt.Errorf("parse encode spec: top-level type is required")
	}

	return n, nil
}

// builder turns spec nodes into values acquired from reg. Every value it
// returns must be released by the caller.
type builder struct {
	reg  *codec.Registry
	dict *dictionary.Dictionary
}

func (b *builder) build(n node) (codec.Value, error) {
	kind, ok := format.ParseDataType(n.Type)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", n.Type)
	}

	switch kind { //nolint: exhaustive
	case format.FieldList:
		return b.fieldList(n)
	case format.ElementList:
		return b.elementList(n)
	case format.Map:
		return b.mapOf(n)
	case format.Series:
		return b.series(n)
	case format.NoData:
		return b.reg.Acquire(format.NoData), nil
	default:
		if kind.IsPrimitive() || kind.IsBlob() {
			return b.scalar(kind, n)
		}

		return nil, fmt.Errorf("type %s is not supported in encode specs", kind)
	}
}

// complete finishes a built container and releases it on failure.
func (b *builder) complete(v codec.Value, done func() error) (codec.Value, error) {
	if err := done(); err != nil {
		b.reg.Release(v)
		return nil, err
	}

	return v, nil
}

func (b *builder) fieldList(n node) (codec.Value, error) {
	fl := b.reg.NewFieldList()
	for i, e := range n.Entries {
		fid, kind, err := b.fieldOf(e)
		if err != nil {
			fl.ReturnToPool()
			return nil, fmt.Errorf("FieldList entry %d: %w", i, err)
		}

		if e.Blank {
			err = fl.AddBlank(fid, kind)
		} else {
			e.Type = kind.String()
			err = b.addWith(e, func(v codec.Value) error { return fl.Add(fid, v) })
		}
		if err != nil {
			fl.ReturnToPool()
			return nil, fmt.Errorf("FieldList entry %d (fid %d): %w", i, fid, err)
		}
	}

	return b.complete(fl, fl.Complete)
}

// fieldOf resolves the field id and type of a FieldList entry. The type
// defaults to the dictionary type of the field.
func (b *builder) fieldOf(e node) (int16, format.DataType, error) {
	var (
		def   dictionary.FieldDef
		found bool
		fid   int16
	)

	switch {
	case e.FID != nil:
		fid = *e.FID
		if b.dict != nil {
			def, found = b.dict.FieldByID(fid)
		}
	case e.Field != "":
		if b.dict == nil {
			return 0, format.Unknown, fmt.Errorf("field %q needs a dictionary", e.Field)
		}
		def, found = b.dict.FieldByName(e.Field)
		if !found {
			return 0, format.Unknown, fmt.Errorf("field %q not in dictionary", e.Field)
		}
		fid = def.FieldID
	default:
		return 0, format.Unknown, fmt.Errorf("fid or field is required")
	}

	if e.Type != "" {
		kind, ok := format.ParseDataType(e.Type)
		if !ok {
			return 0, format.Unknown, fmt.Errorf("unknown type %q", e.Type)
		}

		return fid, kind, nil
	}
	if !found {
		return 0, format.Unknown, fmt.Errorf("fid %d: type is required without a dictionary entry", fid)
	}

	return fid, def.Type, nil
}

func (b *builder) elementList(n node) (codec.Value, error) {
	el := b.reg.NewElementList()
	for i, e := range n.Entries {
		var err error
		switch {
		case e.Type == "":
			err = fmt.Errorf("type is required")
		case e.Blank:
			kind, ok := format.ParseDataType(e.Type)
			if !ok {
				err = fmt.Errorf("unknown type %q", e.Type)
				break
			}
			err = el.AddBlank(e.Name, kind)
		default:
			err = b.addWith(e, func(v codec.Value) error { return el.Add(e.Name, v) })
		}
		if err != nil {
			el.ReturnToPool()
			return nil, fmt.Errorf("ElementList entry %d (%s): %w", i, e.Name, err)
		}
	}

	return b.complete(el, el.Complete)
}

func (b *builder) mapOf(n node) (codec.Value, error) {
	m := b.reg.NewMap()
	keyKind := format.Ascii
	if n.KeyType != "" {
		var ok bool
		if keyKind, ok = format.ParseDataType(n.KeyType); !ok {
			m.ReturnToPool()
			return nil, fmt.Errorf("unknown keyType %q", n.KeyType)
		}
	}
	if err := m.KeyType(keyKind); err != nil {
		m.ReturnToPool()
		return nil, err
	}

	for i, e := range n.Entries {
		if err := b.mapEntry(m, keyKind, e); err != nil {
			m.ReturnToPool()
			return nil, fmt.Errorf("Map entry %d (key %s): %w", i, e.Key, err)
		}
	}

	return b.complete(m, m.Complete)
}

func (b *builder) mapEntry(m *codec.Map, keyKind format.DataType, e node) error {
	action := format.MapAdd
	if e.Action != "" {
		var ok bool
		if action, ok = parseNamed(e.Action, format.MapDelete); !ok {
			return fmt.Errorf("unknown action %q", e.Action)
		}
	}

	key, err := b.scalar(keyKind, node{Value: e.Key})
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}
	defer b.reg.Release(key)

	if e.Payload == nil {
		return m.AddKey(key, action, nil, nil)
	}

	v, err := b.build(*e.Payload)
	if err != nil {
		return err
	}
	defer b.reg.Release(v)

	return m.AddKey(key, action, v, nil)
}

func (b *builder) series(n node) (codec.Value, error) {
	s := b.reg.NewSeries()
	for i, e := range n.Entries {
		err := b.addWith(e, s.Add)
		if err != nil {
			s.ReturnToPool()
			return nil, fmt.Errorf("Series entry %d: %w", i, err)
		}
	}

	return b.complete(s, s.Complete)
}

// addWith builds e, passes it to add and releases it.
func (b *builder) addWith(e node, add func(codec.Value) error) error {
	v, err := b.build(e)
	if err != nil {
		return err
	}
	defer b.reg.Release(v)

	return add(v)
}

// scalar acquires a primitive or blob value of kind and sets it from the
// text form in n.Value.
func (b *builder) scalar(kind format.DataType, n node) (codec.Value, error) {
	if kind.IsMessage() || kind == format.Msg {
		return nil, fmt.Errorf("message payloads are not supported in encode specs")
	}

	v := b.reg.Acquire(kind)
	if v == nil {
		return nil, fmt.Errorf("cannot encode %s", kind)
	}
	if err := setScalar(v, n); err != nil {
		b.reg.Release(v)
		return nil, fmt.Errorf("%s value %q: %w", kind, n.Value, err)
	}

	return v, nil
}

func setScalar(v codec.Value, n node) error {
	s := strings.TrimSpace(n.Value)

	switch t := v.(type) {
	case *codec.Int:
		x, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		t.Set(x)
	case *codec.UInt:
		x, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		t.Set(x)
	case *codec.Enum:
		x, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return err
		}
		t.Set(uint16(x))
	case *codec.Float:
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		t.Set(float32(x))
	case *codec.Double:
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		t.Set(x)
	case *codec.Real:
		return setReal(t, s, n.Hint)
	case *codec.Date:
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return err
		}

		return t.Set(d.Year(), int(d.Month()), d.Day())
	case *codec.Time:
		c, err := time.Parse("15:04:05.999999999", s)
		if err != nil {
			return err
		}
		ns := c.Nanosecond()

		return t.Set(c.Hour(), c.Minute(), c.Second(), ns/1e6, ns/1e3%1e3, ns%1e3)
	case *codec.DateTime:
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}

		return t.SetTime(ts)
	case *codec.Qos:
		return setQos(t, s)
	case *codec.State:
		return setState(t, s, n.Text)
	case *codec.Buffer:
		if t.DataType() == format.Buffer {
			raw, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
			if err != nil {
				return err
			}
			t.Set(raw)

			return nil
		}
		t.SetString(n.Value)
	case *codec.Opaque:
		if t.DataType() == format.Json || t.DataType() == format.Xml {
			t.Set([]byte(n.Value))
			return nil
		}
		raw, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
		if err != nil {
			return err
		}
		t.Set(raw)
	default:
		return fmt.Errorf("unsupported value kind %s", v.DataType())
	}

	return nil
}

// setReal parses a decimal such as "39.90" into mantissa 3990 with hint
// ExponentNeg2. An explicit hint rounds the parsed value to that hint.
func setReal(v *codec.Real, s, hint string) error {
	switch s {
	case "Inf", "+Inf":
		return v.Set(0, format.Infinity)
	case "-Inf":
		return v.Set(0, format.NegInfinity)
	case "NaN":
		return v.Set(0, format.NotANumber)
	}

	if hint != "" {
		h, ok := parseNamed(hint, format.NotANumber)
		if !ok || !h.IsValid() {
			return fmt.Errorf("unknown hint %q", hint)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}

		return v.SetFromDouble(f, h)
	}

	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(format.Exponent0-format.ExponentNeg14) {
		return fmt.Errorf("too many decimals")
	}
	m, err := strconv.ParseInt(intPart+frac, 10, 64)
	if err != nil {
		return err
	}

	return v.Set(m, format.Exponent0-format.MagnitudeType(len(frac))) //nolint:gosec
}

// setQos parses "Timeliness/Rate", for example "RealTime/TickByTick".
func setQos(v *codec.Qos, s string) error {
	tl, rt, ok := strings.Cut(s, "/")
	if !ok {
		return fmt.Errorf("want Timeliness/Rate")
	}
	timeliness, ok := parseNamed(strings.TrimSpace(tl), format.TimelinessDelayed)
	if !ok {
		return fmt.Errorf("unknown timeliness %q", tl)
	}
	rate, ok := parseNamed(strings.TrimSpace(rt), format.RateTimeConflated)
	if !ok {
		return fmt.Errorf("unknown rate %q", rt)
	}

	return v.Set(rwf.Qos{Timeliness: timeliness, Rate: rate})
}

// setState parses "Stream/Data[/Code]", for example "Open/Ok".
func setState(v *codec.State, s, text string) error {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("want Stream/Data[/Code]")
	}
	stream, ok := parseNamed(strings.TrimSpace(parts[0]), format.StreamRedirected)
	if !ok {
		return fmt.Errorf("unknown stream state %q", parts[0])
	}
	data, ok := parseNamed(strings.TrimSpace(parts[1]), format.DataSuspect)
	if !ok {
		return fmt.Errorf("unknown data state %q", parts[1])
	}
	code := format.StatusNone
	if len(parts) == 3 {
		if code, ok = parseNamed(strings.TrimSpace(parts[2]), format.StatusGapDetected); !ok {
			return fmt.Errorf("unknown status code %q", parts[2])
		}
	}

	return v.Set(stream, data, code, text)
}

// parseNamed finds the value in [0, last] whose String form is name.
func parseNamed[T interface {
	~uint8
	String() string
}](name string, last T) (T, bool) {
	for i := 0; i <= int(last) && i <= math.MaxUint8; i++ {
		if T(i).String() == name { //nolint:gosec
			return T(i), true //nolint:gosec
		}
	}

	return 0, false
}
