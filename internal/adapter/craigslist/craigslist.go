// Package craigslist implements the site adapter for craigslist.org
// classified listings.
package craigslist

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marketmonitor/internal/adapter"
	"marketmonitor/internal/config"
	"marketmonitor/internal/model"
	"marketmonitor/internal/pipeline"
)

// Name identifies this marketplace in configs and cache entries.
const Name = "craigslist"

// Craigslist gallery pages carry 120 results; pagination advances the `s`
// offset parameter and stops on the first short page.
const pageSize = 120

const defaultCategory = "sss" // all for-sale categories

var conditionCodes = map[string]string{
	"new":       "10",
	"like new":  "20",
	"excellent": "30",
	"good":      "40",
	"fair":      "50",
	"salvage":   "60",
}

// Adapter implements pipeline.Adapter for craigslist.
type Adapter struct {
	client      *adapter.Client
	defaultCity string
}

// New creates a craigslist adapter. defaultCity is the subdomain searched
// when neither the item nor the marketplace config names one.
func New(client *adapter.Client, defaultCity string) *Adapter {
	return &Adapter{client: client, defaultCity: defaultCity}
}

// Name returns the marketplace identifier.
func (a *Adapter) Name() string {
	return Name
}

// NewPager returns the offset pager matching craigslist's `s` parameter.
func (a *Adapter) NewPager() pipeline.Pager {
	return pipeline.NewOffsetPager(pageSize)
}

// Fetch retrieves one page.
func (a *Adapter) Fetch(ctx context.Context, url string) (string, error) {
	return a.client.Get(ctx, url)
}

// BuildSearchURL assembles a craigslist search URL for one phrase and one
// pagination cursor. min_price/max_price take the leading token of the
// configured display string, so "500 USD" filters on 500; this numeric
// extraction is deliberately adapter-local.
func (a *Adapter) BuildSearchURL(item *config.ItemConfig, phrase string, cur pipeline.Cursor) string {
	city := a.defaultCity
	if len(item.SearchCity) > 0 {
		city = item.SearchCity[0]
	}

	category := item.Category
	if category == "" {
		category = defaultCategory
	}

	params := url.Values{}
	params.Set("query", phrase)

	if item.MinPrice != "" {
		params.Set("min_price", priceToken(item.MinPrice))
	}
	if item.MaxPrice != "" {
		params.Set("max_price", priceToken(item.MaxPrice))
	}
	if item.SearchDistance != nil {
		params.Set("search_distance", fmt.Sprint(*item.SearchDistance))
	}
	if item.PostedToday != nil && *item.PostedToday {
		params.Set("postedToday", "1")
	}
	if item.HasImage != nil && *item.HasImage {
		params.Set("hasPic", "1")
	}
	for _, cond := range item.Condition {
		if code, ok := conditionCodes[strings.ToLower(cond)]; ok {
			params.Add("condition", code)
		}
	}
	if cur.Offset > 0 {
		params.Set("s", fmt.Sprint(cur.Offset))
	}
	params.Set("sort", "date")

	return fmt.Sprintf("https://%s.craigslist.org/search/%s?%s", city, category, params.Encode())
}

func priceToken(price string) string {
	tok, _, _ := strings.Cut(strings.TrimSpace(price), " ")
	return strings.TrimPrefix(tok, "$")
}

// Title may live under several selectors depending on the layout craigslist
// serves; they are tried in order.
var titleSelectors = []string{
	".posting-title .label",
	".posting-title span.label",
	".title",
	"a.main",
	".meta .title",
}

// ParseResults extracts raw candidates from a search-results page. A card
// missing its id or title is skipped: one malformed card must not abort
// the page it shares with intact ones.
func (a *Adapter) ParseResults(content string) (*pipeline.ResultsPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	page := &pipeline.ResultsPage{}
	doc.Find(".cl-search-result").Each(func(_ int, card *goquery.Selection) {
		id, ok := card.Attr("data-pid")
		if !ok || id == "" {
			return
		}

		title := ""
		for _, sel := range titleSelectors {
			el := card.Find(sel).First()
			if el.Length() == 0 {
				continue
			}
			title = strings.TrimSpace(el.Text())
			if title == "" {
				title = strings.TrimSpace(el.AttrOr("title", ""))
			}
			if title != "" {
				break
			}
		}
		if title == "" {
			title = strings.TrimSpace(card.Find("a").First().AttrOr("aria-label", ""))
		}
		if title == "" {
			return
		}

		price := model.NoPrice
		for _, sel := range []string{".price", ".priceinfo", ".meta .price"} {
			if v := strings.TrimSpace(card.Find(sel).First().Text()); v != "" && v != model.NoPrice {
				price = v
				break
			}
		}

		postURL := card.Find("a").First().AttrOr("href", "")
		if strings.HasPrefix(postURL, "//") {
			postURL = "https:" + postURL
		}
		if postURL == "" {
			return
		}

		page.Candidates = append(page.Candidates, model.Candidate{
			ID:       id,
			Title:    title,
			URL:      postURL,
			Image:    card.Find("img").First().AttrOr("src", ""),
			Price:    price,
			Location: strings.TrimSpace(card.Find(".location").First().Text()),
		})
	})

	// The gallery keeps a next-page control; the offset pager does not
	// need it, but surface it for completeness.
	next := doc.Find(".cl-next-page").First()
	page.HasNext = next.Length() > 0 && !next.HasClass("bd-disabled")

	return page, nil
}

var (
	listingIDRe = regexp.MustCompile(`/(\d+)\.html`)
	qrFooterRe  = regexp.MustCompile(`QR Code Link to This Post[\s\S]*$`)
)

// ParseDetail extracts enrichment fields from a listing detail page. A
// missing title means the markup changed and is reported as a structural
// error; price and description are optional and fall back to the
// search-result hints.
func (a *Adapter) ParseDetail(content string, cand model.Candidate) (*model.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse detail page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("#titletextonly").First().Text())
	if title == "" {
		return nil, fmt.Errorf("%w: no title on detail page %s", adapter.ErrStructureChanged, cand.URL)
	}

	id := cand.ID
	if m := listingIDRe.FindStringSubmatch(cand.URL); m != nil {
		id = m[1]
	}

	price := strings.TrimSpace(doc.Find(".price").First().Text())
	if price == "" {
		price = cand.Price
	}
	if price == "" {
		price = model.NoPrice
	}

	description := strings.TrimSpace(doc.Find("#postingbody").First().Text())
	description = orUnspecified(strings.TrimSpace(qrFooterRe.ReplaceAllString(description, "")))

	location := strings.TrimSpace(doc.Find(".postingtitletext small").First().Text())
	location = strings.Trim(location, "()")
	if location == "" {
		location = cand.Location
	}

	image := doc.Find(".slide img").First().AttrOr("src", "")
	if image == "" {
		image = cand.Image
	}

	return &model.Listing{
		ID:          id,
		Title:       title,
		Price:       price,
		PostURL:     cand.URL,
		Image:       image,
		Location:    orUnspecified(location),
		Seller:      "Craigslist User", // craigslist never shows seller names
		Condition:   orUnspecified(strings.TrimSpace(doc.Find(".condition").First().Text())),
		Description: description,
	}, nil
}

// Optional fields absent from both the detail page and the search-result
// hints are not errors; they carry the sentinel instead.
func orUnspecified(v string) string {
	if v == "" {
		return model.Unspecified
	}
	return v
}
