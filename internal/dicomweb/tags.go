package dicomweb

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/caio-sobreiro/dicomnet/dicom"
)

// ErrUnknownKeyword indicates a DICOM attribute keyword outside the closed
// set this client knows how to address.
var ErrUnknownKeyword = errors.New("unknown DICOM keyword")

// keywordTags maps attribute keywords to their hex tag form as used in the
// DICOM JSON model (uppercase GGGGEEEE). It covers the keywords the client
// projects from search and retrieve results plus the queryable attributes
// of the study and series search resources, so both filter keys and
// includefield values resolve here.
var keywordTags = map[string]string{
	"SOPClassUID":                     "00080016",
	"SOPInstanceUID":                  "00080018",
	"StudyDate":                       "00080020",
	"SeriesDate":                      "00080021",
	"StudyTime":                       "00080030",
	"SeriesTime":                      "00080031",
	"AccessionNumber":                 "00080050",
	"Modality":                        "00080060",
	"ModalitiesInStudy":               "00080061",
	"ReferringPhysicianName":          "00080090",
	"TimezoneOffsetFromUTC":           "00080201",
	"StudyDescription":                "00081030",
	"SeriesDescription":               "0008103E",
	"RetrieveURL":                     "00081190",
	"PatientName":                     "00100010",
	"PatientID":                       "00100020",
	"PatientBirthDate":                "00100030",
	"PatientSex":                      "00100040",
	"StudyInstanceUID":                "0020000D",
	"SeriesInstanceUID":               "0020000E",
	"StudyID":                         "00200010",
	"SeriesNumber":                    "00200011",
	"InstanceNumber":                  "00200013",
	"PerformedProcedureStepStartDate": "00400244",
	"PerformedProcedureStepStartTime": "00400245",
	"PixelData":                       "7FE00010",
}

// TagForKeyword resolves an attribute keyword to its hex tag. Keywords
// outside the closed set are rejected at this boundary instead of being
// silently mapped to null values downstream.
func TagForKeyword(keyword string) (string, error) {
	tag, ok := keywordTags[keyword]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKeyword, keyword)
	}
	return tag, nil
}

// KnownKeyword reports whether keyword belongs to the closed attribute set.
func KnownKeyword(keyword string) bool {
	_, ok := keywordTags[keyword]
	return ok
}

// binaryTag converts a hex tag to the codec's (group, element) form.
func binaryTag(hexTag string) (dicom.Tag, error) {
	if len(hexTag) != 8 {
		return dicom.Tag{}, fmt.Errorf("invalid tag %q", hexTag)
	}
	group, err := strconv.ParseUint(hexTag[:4], 16, 16)
	if err != nil {
		return dicom.Tag{}, fmt.Errorf("invalid tag %q: %w", hexTag, err)
	}
	element, err := strconv.ParseUint(hexTag[4:], 16, 16)
	if err != nil {
		return dicom.Tag{}, fmt.Errorf("invalid tag %q: %w", hexTag, err)
	}
	return dicom.Tag{Group: uint16(group), Element: uint16(element)}, nil
}
