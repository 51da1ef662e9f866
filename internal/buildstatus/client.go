package buildstatus

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Build is one CI build as reported by the server.
type Build struct {
	ID          int64  `json:"id"`
	BuildTypeID string `json:"buildTypeId"`
	Number      string `json:"number"`
	Status      string `json:"status"`
	State       string `json:"state"`
	Branch      string `json:"branch"`
	WebURL      string `json:"webUrl"`
}

// Succeeded reports whether the build finished green.
func (b Build) Succeeded() bool {
	return strings.EqualFold(b.Status, "SUCCESS")
}

type buildDoc struct {
	ID          int64  `xml:"id,attr"`
	BuildTypeID string `xml:"buildTypeId,attr"`
	Number      string `xml:"number,attr"`
	Status      string `xml:"status,attr"`
	State       string `xml:"state,attr"`
	BranchName  string `xml:"branchName,attr"`
	WebURL      string `xml:"webUrl,attr"`
}

type buildsDoc struct {
	XMLName xml.Name   `xml:"builds"`
	Count   int        `xml:"count,attr"`
	Builds  []buildDoc `xml:"build"`
}

// Credentials authenticate against the CI server.
type Credentials struct {
	User     string
	Password string
}

// Client talks to a TeamCity-style XML REST API. Requests are rate limited
// so a short poll interval cannot hammer the server.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string, creds Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

// LatestBuilds fetches the most recent builds for a build type, newest first.
// branch may be empty to query the default branch.
func (c *Client) LatestBuilds(ctx context.Context, buildType, branch string) ([]Build, error) {
	if buildType == "" {
		return nil, fmt.Errorf("build type is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	locator := fmt.Sprintf("buildType:%s,count:10", buildType)
	if branch != "" {
		locator += ",branch:" + branch
	}
	endpoint := fmt.Sprintf("%s/app/rest/builds?locator=%s", c.baseURL, url.QueryEscape(locator))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	if c.creds.User != "" {
		req.SetBasicAuth(c.creds.User, c.creds.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("build status server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc buildsDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode builds: %w", err)
	}

	builds := make([]Build, 0, len(doc.Builds))
	for _, b := range doc.Builds {
		builds = append(builds, Build{
			ID:          b.ID,
			BuildTypeID: b.BuildTypeID,
			Number:      b.Number,
			Status:      b.Status,
			State:       b.State,
			Branch:      b.BranchName,
			WebURL:      b.WebURL,
		})
	}
	return builds, nil
}
