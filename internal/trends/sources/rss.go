package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

// feedEntry is the normalized shape of one RSS or Atom item.
type feedEntry struct {
	Title     string
	Summary   string
	Link      string
	Published string
	Author    string
}

// rssDocument covers RSS 2.0 payloads.
type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
			Link        string `xml:"link"`
			PubDate     string `xml:"pubDate"`
			Author      string `xml:"author"`
		} `xml:"item"`
	} `xml:"channel"`
}

// atomDocument covers Atom payloads, which YouTube feeds use.
type atomDocument struct {
	XMLName xml.Name `xml:"feed"`
	Entries []struct {
		Title   string `xml:"title"`
		Summary string `xml:"summary"`
		Content string `xml:"content"`
		Link    struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Published string `xml:"published"`
		Author    struct {
			Name string `xml:"name"`
		} `xml:"author"`
	} `xml:"entry"`
}

// fetchFeed downloads and parses one feed URL, trying RSS first and
// falling back to Atom. The returned slice holds at most limit entries.
func fetchFeed(ctx context.Context, client *http.Client, url string, limit int) ([]feedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading feed body: %w", err)
	}

	entries, err := parseFeed(body)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func parseFeed(body []byte) ([]feedEntry, error) {
	var rss rssDocument
	if err := xml.Unmarshal(body, &rss); err == nil {
		entries := make([]feedEntry, 0, len(rss.Channel.Items))
		for _, item := range rss.Channel.Items {
			entries = append(entries, feedEntry{
				Title:     item.Title,
				Summary:   item.Description,
				Link:      item.Link,
				Published: item.PubDate,
				Author:    item.Author,
			})
		}
		return entries, nil
	}

	var atom atomDocument
	if err := xml.Unmarshal(body, &atom); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	entries := make([]feedEntry, 0, len(atom.Entries))
	for _, entry := range atom.Entries {
		summary := entry.Summary
		if summary == "" {
			summary = entry.Content
		}
		entries = append(entries, feedEntry{
			Title:     entry.Title,
			Summary:   summary,
			Link:      entry.Link.Href,
			Published: entry.Published,
			Author:    entry.Author.Name,
		})
	}
	return entries, nil
}
