// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/internal/platform/constants"
)

// registryHTTPTimeout bounds one public registry round trip.
const registryHTTPTimeout = 30 * time.Second

// Cache is the slice of the Redis client the registry client needs for
// profile caching. Satisfied by [*redis.Client]; tests substitute a
// map-backed fake.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Client talks to the ORCID public registry (v3.0 API).
//
// # Caching
//
// Full records are cached in Redis keyed by iD; batch resolution confirms
// every claimed iD against the registry, and operators frequently reinspect
// the same profiles, so the cache prevents repeated registry hits.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
}

// NewClient constructs a registry client. The cache is optional; a nil
// cache disables caching.
func NewClient(baseURL string, cache Cache, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: registryHTTPTimeout},
		cache:      cache,
		logger:     logger,
	}
}

// FetchRecord retrieves the full record for an iD, from cache when possible.
//
// A 404 from the registry maps to apperr NotFound: the caller uses this to
// reject hallucinated iDs. Other failures map to a retryable Provider error.
func (client *Client) FetchRecord(ctx context.Context, orcidID string) (*Record, error) {
	cacheKey := constants.RedisPrefixOrcidProfile + orcidID

	if client.cache != nil {
		if cached, err := client.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			record := &Record{}
			if json.Unmarshal(cached, record) == nil {
				return record, nil
			}
			// Corrupt cache entry; fall through to a fresh fetch.
			client.cache.Del(ctx, cacheKey)
		}
	}

	payload, err := client.get(ctx, "/"+orcidID)
	if err != nil {
		return nil, err
	}

	record := &Record{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, apperr.Parse("Failed to decode ORCID record", err)
	}

	if client.cache != nil {
		if err := client.cache.Set(ctx, cacheKey, payload, constants.OrcidProfileTTL).Err(); err != nil {
			client.logger.WarnContext(ctx, "orcid_cache_write_failed",
				slog.String("orcid_id", orcidID),
				slog.Any("error", err),
			)
		}
	}

	return record, nil
}

// FetchWorks retrieves the works summary for an iD.
func (client *Client) FetchWorks(ctx context.Context, orcidID string) (*Works, error) {
	payload, err := client.get(ctx, "/"+orcidID+"/works")
	if err != nil {
		return nil, err
	}

	works := &Works{}
	if err := json.Unmarshal(payload, works); err != nil {
		return nil, apperr.Parse("Failed to decode ORCID works", err)
	}
	return works, nil
}

// ExpandedSearch queries the registry by given and family name and returns
// candidate matches.
func (client *Client) ExpandedSearch(ctx context.Context, givenNames, familyName string) ([]SearchHit, error) {
	query := fmt.Sprintf("given-names:%s AND family-name:%s", givenNames, familyName)
	path := "/expanded-search/?q=" + url.QueryEscape(query)

	payload, err := client.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var result expandedSearchResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperr.Parse("Failed to decode ORCID search response", err)
	}
	return result.ExpandedResult, nil
}

// get performs one GET against the registry and returns the raw body.
func (client *Client) get(ctx context.Context, path string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("orcid: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.Provider("ORCID registry", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, apperr.NotFound("ORCID record")
	}
	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, apperr.Provider("ORCID registry", fmt.Errorf("status %d: %s", response.StatusCode, string(body)))
	}

	return io.ReadAll(response.Body)
}

// # Registry Wire Types
//
// Typed subset of the v3.0 payloads; only the fields structuring needs.

// Record is the full ORCID record for one researcher.
type Record struct {
	OrcidIdentifier   struct {
		Path string `json:"path"`
	} `json:"orcid-identifier"`
	Person            Person            `json:"person"`
	ActivitiesSummary ActivitiesSummary `json:"activities-summary"`
}

// Person is the biographical section of a record.
type Person struct {
	Name struct {
		GivenNames struct {
			Value string `json:"value"`
		} `json:"given-names"`
		FamilyName struct {
			Value string `json:"value"`
		} `json:"family-name"`
	} `json:"name"`
	Keywords struct {
		Keyword []struct {
			Content string `json:"content"`
		} `json:"keyword"`
	} `json:"keywords"`
	ExternalIdentifiers struct {
		ExternalIdentifier []struct {
			Type  string `json:"external-id-type"`
			Value string `json:"external-id-value"`
			URL   struct {
				Value string `json:"value"`
			} `json:"external-id-url"`
		} `json:"external-identifier"`
	} `json:"external-identifiers"`
}

// ActivitiesSummary groups the affiliation sections of a record.
type ActivitiesSummary struct {
	Employments      AffiliationSection `json:"employments"`
	Educations       AffiliationSection `json:"educations"`
	InvitedPositions AffiliationSection `json:"invited-positions"`
}

// AffiliationSection is one affiliation category (employments, ...).
type AffiliationSection struct {
	AffiliationGroup []struct {
		Summaries []AffiliationSummaryItem `json:"summaries"`
	} `json:"affiliation-group"`
}

// AffiliationSummaryItem carries exactly one of the summary variants; the
// JSON key depends on the section.
type AffiliationSummaryItem struct {
	EmploymentSummary      *AffiliationSummary `json:"employment-summary"`
	EducationSummary       *AffiliationSummary `json:"education-summary"`
	InvitedPositionSummary *AffiliationSummary `json:"invited-position-summary"`
}

// Summary returns whichever variant is present, or nil.
func (item AffiliationSummaryItem) Summary() *AffiliationSummary {
	switch {
	case item.EmploymentSummary != nil:
		return item.EmploymentSummary
	case item.EducationSummary != nil:
		return item.EducationSummary
	default:
		return item.InvitedPositionSummary
	}
}

// AffiliationSummary is one employment/education/invited-position entry.
type AffiliationSummary struct {
	Organization struct {
		Name string `json:"name"`
	} `json:"organization"`
	DepartmentName string `json:"department-name"`
}

// Works is the works listing for one researcher.
type Works struct {
	Group []struct {
		WorkSummary []struct {
			Title struct {
				Title struct {
					Value string `json:"value"`
				} `json:"title"`
			} `json:"title"`
		} `json:"work-summary"`
	} `json:"group"`
}

// SearchHit is one candidate from the expanded search endpoint.
type SearchHit struct {
	OrcidID         string   `json:"orcid-id"`
	GivenNames      string   `json:"given-names"`
	FamilyNames     string   `json:"family-names"`
	InstitutionName []string `json:"institution-name"`
}

// expandedSearchResponse is the expanded-search envelope.
type expandedSearchResponse struct {
	ExpandedResult []SearchHit `json:"expanded-result"`
	NumFound       int         `json:"num-found"`
}
