// Package codec implements the pooled container codec of omm.
//
// Containers (FieldList, ElementList, Map, Vector, Series, FilterList and Array)
// and the scalar values they carry are obtained from a Registry and returned to
// it when no longer needed. A container is used in one of two modes:
//
// Decoding stores the source buffer and decodes the header only. Entries are
// materialized on the first call to Size, All, Entry or String:
//
//	fl := reg.NewFieldList()
//	defer fl.ReturnToPool()
//
//	if err := fl.Decode(data, rwf.MajorVersion, rwf.MinorVersion, dict, nil); err != nil {
//		// container-level failure: fl holds a single Error entry
//	}
//	for e := range fl.All() {
//		fmt.Println(e.FieldID(), e.Name(), e.Load())
//	}
//
// Building encodes every entry as it is added, into a buffer that doubles when
// it runs out of room:
//
//	fl := reg.NewFieldList()
//	_ = fl.Info(0, 65)
//	_ = fl.AddReal(22, 3990, format.ExponentNeg2)
//	_ = fl.AddUInt(1, 64)
//	data := fl.EncodedData()
//
// Nested containers are completed first and added through their encoded bytes.
// Decode failures are data: a failing entry carries an Error load, and a header
// that cannot be decoded leaves the container with a single Error entry and a
// *errs.DecodeError. Builder misuse returns *errs.Error values matching the
// errs.Err* sentinels.
//
// Containers, entries and values are not safe for concurrent use. A Registry
// is safe for concurrent use only when built WithSynchronized; the scalar free
// lists are always guarded by one shared lock.
package codec
