// Package dicomweb implements a client for the DICOMweb REST services:
// QIDO-RS search and WADO-RS retrieval, together with the DICOM JSON
// attribute model those services speak.
package dicomweb

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Attribute is one DICOM attribute in the DICOM JSON model (PS3.18 F.2):
// a value representation plus either an inline value array or a reference
// to out-of-band bulk data.
type Attribute struct {
	VR           string `json:"vr"`
	Value        []any  `json:"Value,omitempty"`
	BulkDataURI  string `json:"BulkDataURI,omitempty"`
	InlineBinary string `json:"InlineBinary,omitempty"`
}

// Dataset maps hex tags (uppercase GGGGEEEE) to attributes. It models one
// query-result record or one instance's metadata as returned by the server.
type Dataset map[string]Attribute

// ParseDatasets decodes a DICOM JSON response body holding zero or more
// datasets. An empty body decodes to an empty slice.
func ParseDatasets(body []byte) ([]Dataset, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var sets []Dataset
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("failed to decode DICOM JSON response: %w", err)
	}
	return sets, nil
}

// Get extracts the value for an attribute keyword. A missing attribute or
// an attribute without values yields nil. A single-element value array
// collapses to its scalar element; zero or multiple elements pass through
// as a []string sequence. Unknown keywords are an error.
func (d Dataset) Get(keyword string) (any, error) {
	tag, err := TagForKeyword(keyword)
	if err != nil {
		return nil, err
	}
	attr, ok := d[tag]
	if !ok {
		return nil, nil
	}
	values := attr.Strings()
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	default:
		return values, nil
	}
}

// GetString extracts a keyword as a single string, joining nothing: a
// missing or multi-valued attribute yields "".
func (d Dataset) GetString(keyword string) (string, error) {
	v, err := d.Get(keyword)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// StripBulkData replaces every bulk data reference with an empty inline
// value so that metadata-only datasets serialize with zero-length payloads
// instead of triggering a bulk fetch.
func (d Dataset) StripBulkData() {
	for tag, attr := range d {
		if attr.BulkDataURI == "" && attr.InlineBinary == "" {
			continue
		}
		attr.BulkDataURI = ""
		attr.InlineBinary = ""
		attr.Value = nil
		d[tag] = attr
	}
}

// Strings renders the attribute's inline values as strings. The DICOM JSON
// model carries strings, numbers and person-name objects; person names use
// their alphabetic form.
func (a Attribute) Strings() []string {
	if len(a.Value) == 0 {
		return nil
	}
	out := make([]string, 0, len(a.Value))
	for _, v := range a.Value {
		out = append(out, valueString(v))
	}
	return out
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case map[string]any:
		if s, ok := t["Alphabetic"].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
