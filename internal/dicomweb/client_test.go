package dicomweb

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

func TestSearchForStudies(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/dicom+json")
		w.Write([]byte(`[{"0020000D": {"vr": "UI", "Value": ["1.2.3"]}}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	sets, err := client.SearchForStudies(context.Background(), SearchOptions{
		Filters: map[string]string{"Modality": "CT"},
		Fuzzy:   true,
		Limit:   2,
		Offset:  1,
		Fields:  []string{"StudyInstanceUID", "PatientID"},
	})
	if err != nil {
		t.Fatalf("SearchForStudies failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected 1 result, got %d", len(sets))
	}
	if gotPath != "/studies" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if got := gotQuery["Modality"]; len(got) != 1 || got[0] != "CT" {
		t.Errorf("unexpected Modality filter %v", got)
	}
	if got := gotQuery["fuzzymatching"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("unexpected fuzzymatching %v", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("unexpected limit %v", got)
	}
	if got := gotQuery["includefield"]; len(got) != 2 {
		t.Errorf("unexpected includefield %v", got)
	}
}

func TestSearchForSeriesScopedToStudy(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	sets, err := client.SearchForSeries(context.Background(), "1.2.3", SearchOptions{})
	if err != nil {
		t.Fatalf("SearchForSeries failed: %v", err)
	}
	if sets != nil {
		t.Errorf("expected empty result for 204, got %v", sets)
	}
	if gotPath != "/studies/1.2.3/series" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestSearchOptionsAcceptQueryableFilters(t *testing.T) {
	opts := SearchOptions{Filters: map[string]string{
		"PatientName":      "Doe^John",
		"AccessionNumber":  "A000123",
		"StudyDescription": "CT Thorax",
		"PatientBirthDate": "19700101",
	}}
	q, err := opts.query()
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	for key, want := range opts.Filters {
		if got := q.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestSearchRejectsUnknownFilterKeyword(t *testing.T) {
	client := NewClient("http://unused.invalid", "tok")
	_, err := client.SearchForStudies(context.Background(), SearchOptions{
		Filters: map[string]string{"BogusField": "x"},
	})
	if err == nil {
		t.Fatal("expected error for unknown filter keyword")
	}
}

func TestRetrieveSeriesMultipart(t *testing.T) {
	// Build a valid Part 10 payload by encoding a metadata-only instance.
	inst := InstanceFromMetadata(Dataset{
		"00080016": {VR: "UI", Value: []any{"1.2.840.10008.5.1.4.1.1.2"}},
		"00080018": {VR: "UI", Value: []any{"9.8.7"}},
		"0020000D": {VR: "UI", Value: []any{"1.2.3"}},
		"0020000E": {VR: "UI", Value: []any{"4.5.6"}},
	})
	payload, err := inst.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type": []string{"application/dicom"},
		})
		if err != nil {
			t.Fatalf("CreatePart failed: %v", err)
		}
		part.Write(payload)
		writer.Close()

		w.Header().Set("Content-Type",
			`multipart/related; type="application/dicom"; boundary=`+writer.Boundary())
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	instances, err := client.RetrieveSeries(context.Background(), "1.2.3", "4.5.6")
	if err != nil {
		t.Fatalf("RetrieveSeries failed: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	got := instances[0]
	if got.SOPInstanceUID() != "9.8.7" {
		t.Errorf("unexpected SOPInstanceUID %q", got.SOPInstanceUID())
	}
	if got.SeriesInstanceUID() != "4.5.6" {
		t.Errorf("unexpected SeriesInstanceUID %q", got.SeriesInstanceUID())
	}
	if got.Data == nil {
		t.Error("full retrieve must keep the raw payload")
	}
}

func TestRetrieveSeriesMetadata(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/dicom+json")
		w.Write([]byte(`[{
			"00080018": {"vr": "UI", "Value": ["9.8.7"]},
			"0020000E": {"vr": "UI", "Value": ["4.5.6"]},
			"7FE00010": {"vr": "OW", "BulkDataURI": "` + "http://example.org/bulk" + `"}
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	instances, err := client.RetrieveSeriesMetadata(context.Background(), "1.2.3", "4.5.6")
	if err != nil {
		t.Fatalf("RetrieveSeriesMetadata failed: %v", err)
	}
	if gotPath != "/studies/1.2.3/series/4.5.6/metadata" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	inst := instances[0]
	if inst.Data != nil {
		t.Error("metadata-only instance must not carry a payload")
	}
	if attr := inst.Meta["7FE00010"]; attr.BulkDataURI != "" {
		t.Error("bulk data reference must be stripped in metadata mode")
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	if _, err := client.SearchForStudies(context.Background(), SearchOptions{}); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
