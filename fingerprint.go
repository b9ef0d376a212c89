package goavsc

import (
	"encoding/hex"

	"github.com/hamba/avro/v2"
)

// Canonical holds the Parsing Canonical Form of a schema document and its
// fingerprints.
type Canonical struct {
	Form   string
	SHA256 string // hex
	CRC64  string // hex, CRC-64-AVRO (Rabin)
}

// Canonicalize computes the Parsing Canonical Form of an AVSC document.
//
// The canonical form is defined by the Avro specification, which has no
// error_union or request kinds; documents using them fail here even though
// Parse accepts them.
func Canonicalize(data []byte) (Canonical, error) {
	// A private cache keeps names from leaking between documents.
	s, err := avro.ParseWithCache(string(data), "", &avro.SchemaCache{})
	if err != nil {
		return Canonical{}, &ParseError{Code: CodeInvalidSchema, Message: "no canonical form", Cause: err}
	}
	sum := s.Fingerprint()
	crc, err := s.FingerprintUsing(avro.CRC64Avro)
	if err != nil {
		return Canonical{}, err
	}
	return Canonical{
		Form:   s.String(),
		SHA256: hex.EncodeToString(sum[:]),
		CRC64:  hex.EncodeToString(crc),
	}, nil
}
