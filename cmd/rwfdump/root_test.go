package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/omm/codec"
	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

const dictPath = "../../dictionary/testdata/fields.yaml"

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	root := newRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()

	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const quoteSpec = `
type: ElementList
entries:
  - name: BID
    type: Real
    value: "39.90"
  - name: ASK
    type: Real
    value: "39.94"
  - name: SYMBOL
    type: Ascii
    value: IBM.N
  - name: VOLUME
    type: UInt
    blank: true
`

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rwfdump version")
	assert.Contains(t, out, fmt.Sprintf("wire version %d.%d", rwf.MajorVersion, rwf.MinorVersion))
}

func TestEncodeDecode_ElementList(t *testing.T) {
	encoded, err := executeCommand(t, quoteSpec, "encode")
	require.NoError(t, err)

	raw, err := hex.DecodeString(strings.TrimSpace(encoded))
	require.NoError(t, err)

	reg := codec.MustNewRegistry()
	el := reg.NewElementList()
	defer el.ReturnToPool()
	require.NoError(t, el.Decode(raw, rwf.MajorVersion, rwf.MinorVersion, nil, nil))
	require.Equal(t, 4, el.Size())

	out, err := executeCommand(t, encoded, "decode", "--type", "ElementList", "--hex")
	require.NoError(t, err)
	assert.Contains(t, out, `ElementEntry name="BID" dataType="Real" value="39.90"`)
	assert.Contains(t, out, `ElementEntry name="SYMBOL" dataType="Ascii" value="IBM.N"`)
	assert.Contains(t, out, `ElementEntry name="VOLUME" dataType="UInt" value="(blank data)"`)
	assert.True(t, strings.HasSuffix(out, "ElementListEnd\n"))
}

func TestEncodeDecode_FieldListWithDictionary(t *testing.T) {
	spec := `
type: FieldList
entries:
  - field: BID
    value: "39.90"
  - fid: 1
    value: "64"
  - field: RDN_EXCHID
    value: "29"
`
	bin := filepath.Join(t.TempDir(), "quote.bin")
	_, err := executeCommand(t, spec, "--dict", dictPath, "encode", "--raw", "-o", bin)
	require.NoError(t, err)

	out, err := executeCommand(t, "", "--dict", dictPath, "decode", bin)
	require.NoError(t, err)
	assert.Contains(t, out, `FieldEntry fid="22" name="BID" dataType="Real" value="39.90"`)
	assert.Contains(t, out, `FieldEntry fid="1" name="PROD_PERM" dataType="UInt" value="64"`)
	assert.Contains(t, out, `name="RDN_EXCHID"`)

	t.Run("NoDictionary", func(t *testing.T) {
		out, err := executeCommand(t, "", "decode", bin)
		require.Error(t, err)
		assert.Contains(t, out, `ErrorCode="NoDictionary"`)
	})

	t.Run("AcronymWithoutDictionary", func(t *testing.T) {
		_, err := executeCommand(t, spec, "encode")
		require.ErrorContains(t, err, "needs a dictionary")
	})

	t.Run("UnknownAcronym", func(t *testing.T) {
		_, err := executeCommand(t, "type: FieldList\nentries:\n  - field: NOPE\n    value: \"1\"\n", "--dict", dictPath, "encode")
		require.ErrorContains(t, err, "not in dictionary")
	})
}

func mapSpec(rows int) string {
	var b strings.Builder
	b.WriteString("type: Map\nkeyType: Ascii\nentries:\n")
	for i := range rows {
		fmt.Fprintf(&b, "  - key: RIC%d\n    action: Add\n    payload:\n      type: ElementList\n      entries:\n", i)
		b.WriteString("        - name: BID\n          type: Real\n          value: \"39.90\"\n")
		b.WriteString("        - name: ASK\n          type: Real\n          value: \"39.94\"\n")
	}
	b.WriteString("  - key: GONE\n    action: Delete\n")

	return b.String()
}

func TestEncode_FramedWithConfig(t *testing.T) {
	cfg := writeFile(t, "rwfdump.toml", "compression = \"s2\"\nmin_compress = 0\nlog_level = \"error\"\n")

	framed, err := executeCommand(t, mapSpec(30), "--config", cfg, "encode", "--framed")
	require.NoError(t, err)

	info, err := executeCommand(t, framed, "frame", "info", "--hex")
	require.NoError(t, err)
	assert.Contains(t, info, "frame 0: offset=0 version=1 compression=S2")
	assert.NotContains(t, info, "frame 1:")

	out, err := executeCommand(t, framed, "decode", "--type", "Map", "--hex", "--framed")
	require.NoError(t, err)
	assert.Contains(t, out, `MapEntry action="Add" key dataType="Ascii" value="RIC29" dataType="ElementList"`)
	assert.Contains(t, out, `MapEntry action="Delete" key dataType="Ascii" value="GONE"`)

	t.Run("CompressionFlagOverridesConfig", func(t *testing.T) {
		framed, err := executeCommand(t, mapSpec(30), "--config", cfg, "--compression", "zstd", "encode", "--framed")
		require.NoError(t, err)

		info, err := executeCommand(t, framed, "frame", "info", "--hex")
		require.NoError(t, err)
		assert.Contains(t, info, "compression=Zstd")
	})
}

func TestFramePackUnpack(t *testing.T) {
	payload := strings.Repeat("00112233", 64)

	framed, err := executeCommand(t, payload, "--compression", "lz4", "frame", "pack", "--hex")
	require.NoError(t, err)

	// Two frames back to back.
	stream := strings.TrimSpace(framed) + strings.TrimSpace(framed)

	info, err := executeCommand(t, stream, "frame", "info", "--hex")
	require.NoError(t, err)
	assert.Contains(t, info, "frame 0: offset=0 version=1 compression=LZ4")
	assert.Contains(t, info, "frame 1:")

	out, err := executeCommand(t, stream, "frame", "unpack", "--hex")
	require.NoError(t, err)
	assert.Equal(t, payload+payload+"\n", out)

	t.Run("Corrupted", func(t *testing.T) {
		_, err := executeCommand(t, "4f4d01", "frame", "info", "--hex")
		require.ErrorContains(t, err, "frame 0 at offset 0")
	})
}

func TestDictCommands(t *testing.T) {
	out, err := executeCommand(t, "", "--dict", dictPath, "dict", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 4.20.29")
	assert.Contains(t, out, "acronym hash collisions: false")

	out, err = executeCommand(t, "", "--dict", dictPath, "dict", "lookup", "22", "RDN_EXCHID", "TRDPRC_1")
	require.NoError(t, err)
	assert.Contains(t, out, "BID")
	assert.Contains(t, out, "enums=4")
	assert.Contains(t, out, "rippleTo=7")

	out, err = executeCommand(t, "", "--dict", dictPath, "dict", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "PROD_PERM"), strings.Index(out, "STORY_ID"))

	_, err = executeCommand(t, "", "--dict", dictPath, "dict", "lookup", "9999")
	require.ErrorContains(t, err, "not found")

	_, err = executeCommand(t, "", "dict", "info")
	require.ErrorIs(t, err, errNoDictionary)
}

func TestDecode_Errors(t *testing.T) {
	_, err := executeCommand(t, "", "decode", "--type", "Real")
	require.ErrorContains(t, err, "not a container type")

	_, err = executeCommand(t, "zz", "decode", "--type", "Vector", "--hex")
	require.ErrorContains(t, err, "parse hex input")

	out, err := executeCommand(t, "", "decode", "--type", "Series")
	require.NoError(t, err, "empty input decodes as an empty container")
	assert.Contains(t, out, "SeriesEnd")

	_, err = executeCommand(t, "", "--dict", "missing.yaml", "version")
	require.ErrorContains(t, err, "load dictionary")
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), cfg)
	})

	t.Run("AllKeys", func(t *testing.T) {
		path := writeFile(t, "c.toml", `
dictionary = " fields.yaml "
compression = "lz4"
min_compress = 128
log_level = "debug"
wire_version = "14.0"
`)
		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "fields.yaml", cfg.Dictionary)
		assert.Equal(t, format.CompressionLZ4, cfg.Compression)
		assert.Equal(t, 128, cfg.MinCompress)
		assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
		assert.Equal(t, uint8(14), cfg.Major)
		assert.Equal(t, uint8(0), cfg.Minor)
	})

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"UnknownKey", `colour = "red"`, "unknown key"},
		{"BadCompression", `compression = "gzip"`, "unknown codec"},
		{"NegativeMinCompress", `min_compress = -1`, "negative"},
		{"BadLogLevel", `log_level = "loud"`, "log_level"},
		{"BadWireVersion", `wire_version = "x"`, "wire_version"},
		{"BadSyntax", `compression = `, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "c.toml", tt.content))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSetReal(t *testing.T) {
	reg := codec.MustNewRegistry()

	tests := []struct {
		in   string
		hint string
		want string
		mag  format.MagnitudeType
	}{
		{"39.90", "", "39.90", format.ExponentNeg2},
		{"-0.5", "", "-0.5", format.ExponentNeg1},
		{"42", "", "42", format.Exponent0},
		{"1.5", "Divisor2", "1.5", format.Divisor2},
		{"Inf", "", "Inf", format.Infinity},
		{"NaN", "", "NaN", format.NotANumber},
	}
	for _, tt := range tests {
		t.Run(tt.in+tt.hint, func(t *testing.T) {
			v, ok := reg.Acquire(format.Real).(*codec.Real)
			require.True(t, ok)
			defer reg.Release(v)

			require.NoError(t, setReal(v, tt.in, tt.hint))
			assert.Equal(t, tt.want, v.String())
			assert.Equal(t, tt.mag, v.MagnitudeType())
		})
	}

	v, ok := reg.Acquire(format.Real).(*codec.Real)
	require.True(t, ok)
	defer reg.Release(v)
	require.Error(t, setReal(v, "1.000000000000001", ""))
	require.Error(t, setReal(v, "abc", ""))
	require.Error(t, setReal(v, "1", "Divisor3"))
}

func TestSetScalar(t *testing.T) {
	b := &builder{reg: codec.MustNewRegistry()}

	tests := []struct {
		kind format.DataType
		n    node
		want string
	}{
		{format.Int, node{Value: "-7"}, "-7"},
		{format.Enum, node{Value: "29"}, "29"},
		{format.Double, node{Value: "0.25"}, "0.25"},
		{format.Date, node{Value: "2024-03-15"}, "15 MAR 2024"},
		{format.Time, node{Value: "09:30:05.123456789"}, "09:30:05:123:456:789"},
		{format.DateTime, node{Value: "2024-03-15T09:30:05.123456789Z"}, "15 MAR 2024 09:30:05:123:456:789"},
		{format.Qos, node{Value: "RealTime/TickByTick"}, "RealTime/TickByTick"},
		{format.State, node{Value: "Open/Ok", Text: "All is well"}, "Open / Ok / None / 'All is well'"},
		{format.Buffer, node{Value: "de ad"}, "de ad"},
		{format.Utf8, node{Value: "héllo"}, "héllo"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			v, err := b.scalar(tt.kind, tt.n)
			require.NoError(t, err)
			defer b.reg.Release(v)
			assert.Equal(t, tt.want, v.String())
		})
	}

	_, err := b.scalar(format.Int, node{Value: "x"})
	require.Error(t, err)
	_, err = b.scalar(format.Qos, node{Value: "RealTime"})
	require.Error(t, err)
	_, err = b.scalar(format.State, node{Value: "Open/Fine"})
	require.Error(t, err)
	_, err = b.scalar(format.UpdateMsg, node{Value: "00"})
	require.Error(t, err)
}

func TestParseSpec_Errors(t *testing.T) {
	_, err := parseSpec(strings.NewReader("entries: []\n"))
	require.ErrorContains(t, err, "top-level type")

	_, err = parseSpec(strings.NewReader("type: FieldList\nbogus: 1\n"))
	require.Error(t, err)

	_, err = executeCommand(t, "type: Vector\n", "encode")
	require.ErrorContains(t, err, "not supported")
}
