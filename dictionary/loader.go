package dictionary

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/omm/errs"
	"github.com/arloliu/omm/format"
)

// document is the YAML layout of a dictionary file:
//
//	version: "4.20.29"
//	fields:
//	  - fid: 22
//	    acronym: BID
//	    type: Real
//	    rippleTo: 23
//	  - fid: 4
//	    acronym: RDN_EXCHID
//	    type: Enum
//	    enums:
//	      1: NYS
//	      2: ASE
type document struct {
	Version string          `yaml:"version"`
	Fields  []fieldDocument `yaml:"fields"`
}

type fieldDocument struct {
	FID        int16             `yaml:"fid"`
	Acronym    string            `yaml:"acronym"`
	DDEAcronym string            `yaml:"ddeAcronym"`
	Type       string            `yaml:"type"`
	RippleTo   int16             `yaml:"rippleTo"`
	Enums      map[uint16]string `yaml:"enums"`
}

// Load reads a YAML dictionary document from r.
func Load(r io.Reader) (*Dictionary, error) {
	var doc document

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", errs.ErrInvalidDictionary)
		}

		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidDictionary, err)
	}

	d := New()
	d.Version = doc.Version

	for i, f := range doc.Fields {
		t, ok := format.ParseDataType(f.Type)
		if !ok {
			return nil, fmt.Errorf("%w: field %d (fid %d) has unknown type %q",
				errs.ErrInvalidFieldType, i, f.FID, f.Type)
		}

		def := FieldDef{
			FieldID:    f.FID,
			Acronym:    f.Acronym,
			DDEAcronym: f.DDEAcronym,
			Type:       t,
			RippleTo:   f.RippleTo,
		}
		if len(f.Enums) > 0 {
			def.Enums = NewEnumTable(f.Enums)
		}

		if err := d.Add(def); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// LoadFile reads a YAML dictionary document from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}
