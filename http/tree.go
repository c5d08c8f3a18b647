package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/noaa-psl/cefidata"
)

// DefaultTreeURL is the published location of the CEFI data option tree.
const DefaultTreeURL = "https://psl.noaa.gov/cefi_portal/data_option_json/cefi_data_tree.json"

// Ensure TreeService implements cefidata.TreeService at compile time.
var _ cefidata.TreeService = (*TreeService)(nil)

// TreeService loads the data option tree from the CEFI data portal.
type TreeService struct {
	client *http.Client
	url    string
}

// NewTreeService creates a TreeService that fetches the option tree from url.
// A nil client falls back to a default client with DefaultFetchTimeout, and
// an empty url falls back to DefaultTreeURL.
func NewTreeService(client *http.Client, url string) *TreeService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if url == "" {
		url = DefaultTreeURL
	}
	return &TreeService{client: client, url: url}
}

// Load fetches and parses the data option tree.
func (s *TreeService) Load(ctx context.Context) (*cefidata.Tree, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return cefidata.ParseTree(body)
}
