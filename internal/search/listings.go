package search

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/jonathan/easyapply-agent/internal/browser"
	"github.com/jonathan/easyapply-agent/internal/linkedin"
	"github.com/jonathan/easyapply-agent/internal/types"
)

// Listings is a lazy, forward-only iterator over the filtered search
// results. It parses one page of result cards at a time and advances the
// pagination cursor on demand. Identifiers already yielded in this run are
// de-duplicated. A page that cannot be fetched, or that contributes no new
// listings, ends the iteration; that is normal exhaustion, not an error.
//
// Usage follows the scanner pattern:
//
//	it := search.NewListings(drv, keywords, location, log)
//	for it.Next(ctx) {
//		process(it.Listing())
//	}
type Listings struct {
	drv      browser.Driver
	keywords string
	location string
	log      zerolog.Logger

	seen  map[string]struct{}
	buf   []types.JobListing
	cur   types.JobListing
	start int
	done  bool
}

// NewListings builds an iterator over the current search session. Open must
// have succeeded first; the iterator reads the already-loaded first page
// before paginating.
func NewListings(drv browser.Driver, keywords, location string, log zerolog.Logger) *Listings {
	return &Listings{
		drv:      drv,
		keywords: keywords,
		location: location,
		log:      log,
		seen:     map[string]struct{}{},
	}
}

// Next advances to the next listing. It returns false when the result set is
// exhausted or the next page cannot be fetched.
func (it *Listings) Next(ctx context.Context) bool {
	for {
		if len(it.buf) > 0 {
			it.cur = it.buf[0]
			it.buf = it.buf[1:]
			return true
		}
		if it.done {
			return false
		}
		it.fetchPage(ctx)
	}
}

// Listing returns the listing produced by the last successful Next call.
func (it *Listings) Listing() types.JobListing {
	return it.cur
}

// fetchPage loads the page at the current cursor and buffers its new
// listings. Any failure, or a page with nothing new, marks the iterator
// exhausted.
func (it *Listings) fetchPage(ctx context.Context) {
	// The first page is already loaded by the navigator; later pages need
	// an explicit cursor navigation.
	if it.start > 0 {
		target := linkedin.SearchURL(it.keywords, it.location, it.start)
		if err := it.drv.Navigate(ctx, target); err != nil {
			it.log.Warn().Err(err).Int("start", it.start).Msg("pagination ended early")
			it.done = true
			return
		}
	}

	html, err := it.drv.PageHTML(ctx)
	if err != nil {
		it.log.Warn().Err(err).Int("start", it.start).Msg("could not read results page")
		it.done = true
		return
	}

	cards, err := ParseListings(html)
	if err != nil {
		it.log.Warn().Err(err).Int("start", it.start).Msg("could not parse results page")
		it.done = true
		return
	}

	fresh := 0
	for _, l := range cards {
		if _, dup := it.seen[l.URL]; dup {
			continue
		}
		it.seen[l.URL] = struct{}{}
		it.buf = append(it.buf, l)
		fresh++
	}

	it.log.Debug().Int("start", it.start).Int("cards", len(cards)).Int("fresh", fresh).Msg("results page parsed")

	if fresh == 0 {
		it.done = true
		return
	}
	it.start += linkedin.PageSize
}

// ParseListings extracts job listings from a rendered search results page.
// Cards without a usable link are skipped.
func ParseListings(html string) ([]types.JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var listings []types.JobListing
	doc.Find(linkedin.SelJobCard).Each(func(_ int, card *goquery.Selection) {
		link := card.Find(linkedin.SelJobCardTitle).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		u := types.NormalizeListingURL(linkedin.JobsSearchURL, href)
		if u == "" {
			return
		}

		listings = append(listings, types.JobListing{
			URL:       u,
			Title:     strings.TrimSpace(link.Text()),
			EasyApply: hasEasyApplyBadge(card),
		})
	})

	return listings, nil
}

func hasEasyApplyBadge(card *goquery.Selection) bool {
	found := false
	card.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), linkedin.EasyApplyBadge) {
			found = true
			return false
		}
		return true
	})
	return found
}
