package dicomweb

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client issues QIDO-RS search and WADO-RS retrieve requests against one
// DICOMweb repository, authenticating every call with a bearer token.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	token      string
}

// NewClient creates a DICOMweb client for the repository at baseURL.
// Transient transport failures (connection errors, 429, 5xx) are retried by
// the underlying HTTP client; nothing above this boundary retries.
func NewClient(baseURL, token string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 15 * time.Second
	retryClient.Logger = nil

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
	}
}

// BaseURL returns the repository base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchOptions parametrize a QIDO-RS search request.
type SearchOptions struct {
	// Filters maps attribute keywords to match values.
	Filters map[string]string
	// Fuzzy enables fuzzy semantic matching of person names.
	Fuzzy bool
	// Limit caps the number of results; zero means server default.
	Limit int
	// Offset skips the first results of the match set.
	Offset int
	// Fields lists attribute keywords to include in each result.
	Fields []string
}

// query renders the options as QIDO-RS query parameters. Filter keys and
// requested fields must belong to the closed keyword set.
func (o SearchOptions) query() (url.Values, error) {
	q := url.Values{}
	for key, value := range o.Filters {
		if !KnownKeyword(key) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKeyword, key)
		}
		q.Set(key, value)
	}
	for _, field := range o.Fields {
		if !KnownKeyword(field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKeyword, field)
		}
		q.Add("includefield", field)
	}
	if o.Fuzzy {
		q.Set("fuzzymatching", "true")
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	return q, nil
}

// SearchForStudies queries the study level of the repository.
func (c *Client) SearchForStudies(ctx context.Context, opts SearchOptions) ([]Dataset, error) {
	return c.search(ctx, "/studies", opts)
}

// SearchForSeries queries the series of one study.
func (c *Client) SearchForSeries(ctx context.Context, studyUID string, opts SearchOptions) ([]Dataset, error) {
	return c.search(ctx, "/studies/"+url.PathEscape(studyUID)+"/series", opts)
}

func (c *Client) search(ctx context.Context, path string, opts SearchOptions) ([]Dataset, error) {
	q, err := opts.query()
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/dicom+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	// An empty match set is a valid result, not an error.
	if resp.StatusCode == nethttp.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	return ParseDatasets(body)
}

// RetrieveStudy fetches every instance of a study as full DICOM objects.
func (c *Client) RetrieveStudy(ctx context.Context, studyUID string) ([]*Instance, error) {
	return c.retrieve(ctx, "/studies/"+url.PathEscape(studyUID))
}

// RetrieveSeries fetches every instance of one series as full DICOM objects.
func (c *Client) RetrieveSeries(ctx context.Context, studyUID, seriesUID string) ([]*Instance, error) {
	path := "/studies/" + url.PathEscape(studyUID) + "/series/" + url.PathEscape(seriesUID)
	return c.retrieve(ctx, path)
}

// RetrieveStudyMetadata fetches the metadata of every instance of a study,
// with bulk data references replaced by empty placeholders.
func (c *Client) RetrieveStudyMetadata(ctx context.Context, studyUID string) ([]*Instance, error) {
	return c.retrieveMetadata(ctx, "/studies/"+url.PathEscape(studyUID)+"/metadata")
}

// RetrieveSeriesMetadata fetches the metadata of every instance of one
// series, with bulk data references replaced by empty placeholders.
func (c *Client) RetrieveSeriesMetadata(ctx context.Context, studyUID, seriesUID string) ([]*Instance, error) {
	path := "/studies/" + url.PathEscape(studyUID) + "/series/" + url.PathEscape(seriesUID) + "/metadata"
	return c.retrieveMetadata(ctx, path)
}

// retrieve issues a WADO-RS request and splits the multipart/related
// response into one instance per part.
func (c *Client) retrieve(ctx context.Context, path string) ([]*Instance, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", `multipart/related; type="application/dicom"`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieve request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("retrieve failed: status %d: %s", resp.StatusCode, string(body))
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse retrieve content type: %w", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("unexpected retrieve content type %q", mediaType)
	}

	var instances []*Instance
	reader := multipart.NewReader(resp.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart response: %w", err)
		}
		raw, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read instance payload: %w", err)
		}
		instance, err := InstanceFromPart10(raw)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

func (c *Client) retrieveMetadata(ctx context.Context, path string) ([]*Instance, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/dicom+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieve request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("retrieve metadata failed: status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata response: %w", err)
	}
	sets, err := ParseDatasets(body)
	if err != nil {
		return nil, err
	}
	instances := make([]*Instance, 0, len(sets))
	for _, ds := range sets {
		instances = append(instances, InstanceFromMetadata(ds))
	}
	return instances, nil
}
