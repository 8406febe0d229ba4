// Package endian provides the byte order used on the omm wire.
//
// The wire format is network byte order (big-endian) regardless of the host.
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so cursor
// code can both patch fixed positions (PutUint16) and append (AppendUint32)
// through one value:
//
//	engine := endian.GetWireEngine()
//	buf = engine.AppendUint16(buf, uint16(fieldID))
//	engine.PutUint16(buf[countPos:], uint16(count))
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetWireEngine returns the engine for the omm wire format (big-endian).
func GetWireEngine() EndianEngine {
	return binary.BigEndian
}
