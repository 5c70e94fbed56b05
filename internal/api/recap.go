// Package api talks to the DartConnect recap site. Recap pages embed
// their full turn-by-turn payload as HTML-entity-escaped JSON in a
// data-page attribute; the client fetches the page and extracts it.
package api

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"dartleague-tracker/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/fasthttp"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

type RecapClient struct {
	client *fasthttp.Client
}

func NewRecapClient() *RecapClient {
	return &RecapClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// FetchRawDetail performs one bounded GET against the canonical recap
// URL and returns the raw embedded props JSON. Transport errors and
// extraction failures both surface as ErrDetailUnavailable; the caller
// must not cache them.
func (c *RecapClient) FetchRawDetail(ctx context.Context, canonicalURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(canonicalURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", userAgent)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDetailUnavailable, err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDetailUnavailable, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrDetailUnavailable, resp.StatusCode())
	}

	raw, err := ExtractPageData(string(resp.Body()))
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// ExtractPageData pulls the HTML-entity-escaped JSON document out of the
// page's data-page attribute.
func ExtractPageData(htmlContent string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetailUnavailable, err)
	}

	escaped, exists := doc.Find("[data-page]").First().Attr("data-page")
	if !exists {
		return nil, fmt.Errorf("%w: no data-page attribute in document", domain.ErrDetailUnavailable)
	}

	return []byte(html.UnescapeString(escaped)), nil
}
