// SPDX-License-Identifier: AGPL-3.0-only

// Package rss resolves "follow this blog by URL": given any page, find
// the feed it advertises.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var feedTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/feed+json",
}

// DiscoverFeedURL returns the feed URL advertised by the page at
// pageURL. URLs that already point at a feed pass through unchanged.
func DiscoverFeedURL(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}

	if looksLikeFeed(parsed.Path) {
		return pageURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	var href string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		linkType, _ := sel.Attr("type")
		for _, ft := range feedTypes {
			if strings.EqualFold(linkType, ft) {
				href, _ = sel.Attr("href")
				return href == ""
			}
		}
		return true
	})
	if href == "" {
		return "", fmt.Errorf("no feed link found at %s", pageURL)
	}

	resolved, err := parsed.Parse(href)
	if err != nil {
		return "", fmt.Errorf("resolve feed link: %w", err)
	}
	return resolved.String(), nil
}

func looksLikeFeed(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range []string{".rss", ".atom", "/feed", "/feed/", "/rss", "/atom.xml", "/rss.xml", "/feed.xml"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
