package dicomweb

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/caio-sobreiro/dicomnet/dicom"
	"github.com/caio-sobreiro/dicomnet/types"
)

// Instance is one retrievable DICOM object. Meta always carries the
// attribute projection; Data holds the raw Part 10 object as received from
// the server and is nil in metadata-only mode.
type Instance struct {
	Meta Dataset
	Data []byte
}

// StudyInstanceUID returns the instance's study identifier.
func (in *Instance) StudyInstanceUID() string {
	s, _ := in.Meta.GetString("StudyInstanceUID")
	return s
}

// SeriesInstanceUID returns the instance's series identifier.
func (in *Instance) SeriesInstanceUID() string {
	s, _ := in.Meta.GetString("SeriesInstanceUID")
	return s
}

// SOPInstanceUID returns the instance's own identifier.
func (in *Instance) SOPInstanceUID() string {
	s, _ := in.Meta.GetString("SOPInstanceUID")
	return s
}

// InstanceFromPart10 wraps one raw DICOM object from a WADO-RS response.
// The attribute projection is parsed out of the object so that callers can
// address instances without touching the payload again. WADO-RS transfers
// default to Explicit VR Little Endian, which is what the codec assumes.
func InstanceFromPart10(raw []byte) (*Instance, error) {
	payload := raw
	if dicom.HasPart10Header(raw) {
		stripped, err := dicom.StripPart10Header(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to read file meta information: %w", err)
		}
		payload = stripped
	}
	ds, err := dicom.ParseDataset(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DICOM object: %w", err)
	}

	meta := Dataset{}
	for keyword, hexTag := range keywordTags {
		if keyword == "PixelData" {
			continue
		}
		tag, err := binaryTag(hexTag)
		if err != nil {
			return nil, err
		}
		el, ok := ds.GetElement(tag)
		if !ok {
			continue
		}
		values := ds.GetStrings(tag)
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		attr := Attribute{VR: el.VR, Value: make([]any, 0, len(values))}
		for _, v := range values {
			if v == "" {
				continue
			}
			attr.Value = append(attr.Value, v)
		}
		meta[hexTag] = attr
	}
	return &Instance{Meta: meta, Data: raw}, nil
}

// InstanceFromMetadata wraps one metadata record from a WADO-RS metadata
// response. Bulk data references are replaced by empty placeholders.
func InstanceFromMetadata(meta Dataset) *Instance {
	meta.StripBulkData()
	return &Instance{Meta: meta}
}

// Encode serializes the instance as a Part 10 file. Full objects pass
// through unmodified. Metadata-only instances are re-encoded from their
// attributes as Explicit VR Little Endian with zero-length bulk payloads;
// sequence and binary attributes that cannot be represented inline are
// dropped from the encoding.
func (in *Instance) Encode() ([]byte, error) {
	if in.Data != nil {
		return in.Data, nil
	}

	ds := dicom.NewDataset()
	for _, hexTag := range sortedTags(in.Meta) {
		attr := in.Meta[hexTag]
		if attr.VR == dicom.VR_SQ {
			continue
		}
		tag, err := binaryTag(hexTag)
		if err != nil {
			continue
		}
		values := attr.Strings()
		switch len(values) {
		case 0:
			ds.AddElement(tag, attr.VR, "")
		case 1:
			ds.AddElement(tag, attr.VR, values[0])
		default:
			ds.AddElement(tag, attr.VR, values)
		}
	}
	body, err := dicom.EncodeDatasetWithTransferSyntax(ds, types.ExplicitVRLittleEndian)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}

	sopClass, _ := in.Meta.GetString("SOPClassUID")
	fileMeta := encodeFileMeta(sopClass, in.SOPInstanceUID())

	out := make([]byte, 0, 132+len(fileMeta)+len(body))
	out = append(out, make([]byte, 128)...)
	out = append(out, []byte("DICM")...)
	out = append(out, fileMeta...)
	out = append(out, body...)
	return out, nil
}

// encodeFileMeta builds the group 0002 file meta information for a
// re-encoded instance: version, media storage identifiers and the transfer
// syntax, preceded by the mandatory group length element.
func encodeFileMeta(sopClassUID, sopInstanceUID string) []byte {
	meta := dicom.NewDataset()
	meta.AddElement(dicom.Tag{Group: 0x0002, Element: 0x0001}, dicom.VR_OB, uint16(0x0100))
	meta.AddElement(dicom.Tag{Group: 0x0002, Element: 0x0002}, dicom.VR_UI, sopClassUID)
	meta.AddElement(dicom.Tag{Group: 0x0002, Element: 0x0003}, dicom.VR_UI, sopInstanceUID)
	meta.AddElement(dicom.Tag{Group: 0x0002, Element: 0x0010}, dicom.VR_UI, types.ExplicitVRLittleEndian)
	body := meta.EncodeDataset()

	// Group length: (0002,0000) UL, value counts the bytes that follow it.
	head := make([]byte, 0, 12)
	head = append(head, 0x02, 0x00, 0x00, 0x00)
	head = append(head, 'U', 'L')
	head = append(head, 0x04, 0x00)
	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, uint32(len(body)))
	head = append(head, length...)
	return append(head, body...)
}

func sortedTags(d Dataset) []string {
	tags := make([]string, 0, len(d))
	for t := range d {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
