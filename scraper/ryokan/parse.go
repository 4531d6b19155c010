package ryokan

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ryokan-explorer/models"
)

// Parsing is deliberately pinned to the upstream site's markup and kept in
// this one file: when the site changes, this boundary is the only code that
// has to follow. Every field is best-effort: a miss records the field as
// absent and never drops the listing.

var (
	digitsRe       = regexp.MustCompile(`\d+`)
	openAirRoomsRe = regexp.MustCompile(`(?i)Rooms with open-air[^:]*:\D*(\d+)`)
	floatRe        = regexp.MustCompile(`[\d.]+`)
)

// privateOnsenMarker is the exact phrase the site prints when a listing
// offers private onsen use. Matching is case-sensitive on purpose:
// "Not available" must not match.
const privateOnsenMarker = "Available"

// ParseIndex extracts the detail-page URLs from one listing-index page.
// Links to pagination and guide pages are filtered out.
func ParseIndex(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var urls []string
	doc.Find("article a.box-link").Each(func(_ int, s *goquery.Selection) {
		link, ok := s.Attr("href")
		if !ok {
			return
		}
		if strings.Contains(link, "/ryokan/") &&
			!strings.Contains(link, "page/") &&
			!strings.Contains(link, "/guide/") {
			urls = append(urls, link)
		}
	})
	return urls, nil
}

// ParseDetail extracts one RawRyokan from a detail page body.
func ParseDetail(r io.Reader, url string) (*models.RawRyokan, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	raw := &models.RawRyokan{URL: url, Name: "Unknown"}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if name := strings.TrimSpace(h1.Text()); name != "" {
			raw.Name = name
		}
	}

	if addr := doc.Find(".txt-address").First(); addr.Length() > 0 {
		// The address block carries a "Show map" link artifact.
		text, _, _ := strings.Cut(addr.Text(), "Show map")
		raw.Address = cleanText(text)
	}

	raw.PriceMin, raw.PriceMax = parsePriceRange(doc)

	content := doc.Find(".ryokan-text .content").First()
	raw.RoomsOpenAirBath = parseOpenAirRooms(doc, content)
	raw.HasPrivateOnsen = strings.Contains(privateUseText(doc), privateOnsenMarker)
	raw.RentalOpenAir, raw.RentalIndoor, raw.RentalBoth = parseRentalTubs(doc)
	raw.Rating = parseRating(doc)

	doc.Find(".ryokan-category.tags a").Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.Text()); tag != "" {
			raw.Tags = append(raw.Tags, tag)
		}
	})

	if p := content.Find("p").First(); p.Length() > 0 {
		raw.Description = cleanText(p.Text())
	}

	raw.Transportation = parseTransportation(doc)

	return raw, nil
}

// parsePriceRange reads the nightly price span next to the price heading.
// One number means a fixed price (min == max); none means absent.
func parsePriceRange(doc *goquery.Document) (*int, *int) {
	section := doc.Find("#tit-price").First()
	if section.Length() == 0 {
		return nil, nil
	}
	span := section.ParentsFiltered("div").First().Find("p span").First()
	if span.Length() == 0 {
		return nil, nil
	}

	text := strings.ReplaceAll(span.Text(), ",", "")
	prices := digitsRe.FindAllString(text, -1)

	switch {
	case len(prices) >= 2:
		min, err1 := strconv.Atoi(prices[0])
		max, err2 := strconv.Atoi(prices[1])
		if err1 != nil || err2 != nil {
			return nil, nil
		}
		return &min, &max
	case len(prices) == 1:
		v, err := strconv.Atoi(prices[0])
		if err != nil {
			return nil, nil
		}
		max := v
		return &v, &max
	default:
		return nil, nil
	}
}

func parseOpenAirRooms(doc *goquery.Document, content *goquery.Selection) int {
	if content.Length() > 0 {
		if m := openAirRoomsRe.FindStringSubmatch(content.Text()); len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	// Fallback: the private-use section saying "Available" implies at
	// least one such room.
	if strings.Contains(privateUseText(doc), privateOnsenMarker) {
		return 1
	}
	return 0
}

// privateUseText returns the amenity text of the "private use" section, or
// "" when the section is missing.
func privateUseText(doc *goquery.Document) string {
	section := doc.Find("#tit-private-use").First()
	if section.Length() == 0 {
		return ""
	}
	return section.ParentsFiltered("div").First().Find("dl").First().Text()
}

func parseRentalTubs(doc *goquery.Document) (open, indoor, both bool) {
	doc.Find(".detail-private").Each(func(_ int, div *goquery.Selection) {
		header := div.Find("h3").First()
		if header.Length() == 0 || !strings.Contains(header.Text(), "Rental") {
			return
		}
		div.Find("dl").Each(func(_ int, dl *goquery.Selection) {
			dt := strings.ToLower(dl.Find("dt").First().Text())
			dd := strings.TrimSpace(dl.Find("dd").First().Text())

			count := 0
			if n, err := strconv.Atoi(dd); err == nil {
				count = n
			}

			switch {
			case strings.Contains(dt, "open-air tubs") && !strings.Contains(dt, "indoor"):
				open = count > 0
			case strings.Contains(dt, "indoor tubs") && !strings.Contains(dt, "open-air"):
				indoor = count > 0
			case strings.Contains(dt, "indoor and outdoor"):
				both = count > 0
			}
		})
	})
	return open, indoor, both
}

// parseRating reads the TripAdvisor bubble image alt text, e.g.
// "4.5 of 5 bubbles". Returns nil when the image is missing.
func parseRating(doc *goquery.Document) *float64 {
	img := doc.Find(`img[alt*="of 5 bubbles"]`).First()
	if img.Length() == 0 {
		return nil
	}
	alt, _ := img.Attr("alt")
	m := floatRe.FindString(alt)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTransportation(doc *goquery.Document) string {
	trans := doc.Find(".txt-Transportation").First()
	if trans.Length() == 0 {
		return ""
	}
	article := trans.ParentsFiltered("article").First()
	if article.Length() == 0 {
		return ""
	}

	var lines []string
	article.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); strings.HasPrefix(text, "(") {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, " | ")
}

// cleanText trims the string and flattens embedded line breaks.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
