package gold

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// priceSpanID is the element carrying the bar price on zlataky.sk product
// pages.
const priceSpanID = "hlavni_cena"

// Bar is one product page to scrape. The URLs differ slightly per weight, so
// they are listed explicitly rather than templated.
type Bar struct {
	Label string
	Grams float64
	URL   string
}

// DefaultBars lists the Argor-Heraeus bars tracked by the scraper.
func DefaultBars() []Bar {
	return []Bar{
		{"1g", 1, "https://zlataky.sk/1-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
		{"2g", 2, "https://zlataky.sk/2-g-argor-heraeus-sa-svycarsko-investicni-zlaty-slitek"},
		{"5g", 5, "https://zlataky.sk/5-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
		{"10g", 10, "https://zlataky.sk/10-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
		{"20g", 20, "https://zlataky.sk/20-g-argor-heraeus-sa-svycarsko-investicni-zlaty-slitek"},
		{"31.1g", 31.1, "https://zlataky.sk/31-1g-argor-heraeus-sa-svycarsko-investicni-zlaty-slitek"},
		{"50g", 50, "https://zlataky.sk/50-g-argor-heraeus-sa-svycarsko-investicni-zlaty-slitek"},
		{"100g", 100, "https://zlataky.sk/100-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
		{"250g", 250, "https://zlataky.sk/250-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
		{"500g", 500, "https://zlataky.sk/500-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
		{"1000g", 1000, "https://zlataky.sk/1000-g-argor-heraeus-sa-svajciarsko-investicna-zlata-tehlicka"},
	}
}

// ShopClient scrapes bar prices from product pages.
type ShopClient struct {
	HTTP       *http.Client
	FetchLimit int // max concurrent page fetches
}

func NewShopClient(timeout time.Duration, fetchLimit int) *ShopClient {
	if fetchLimit < 1 {
		fetchLimit = 1
	}
	return &ShopClient{
		HTTP:       &http.Client{Timeout: timeout},
		FetchLimit: fetchLimit,
	}
}

// FetchPrice scrapes one product page and returns the bar price in EUR.
// A missing price span usually means the bar is sold out.
func (c *ShopClient) FetchPrice(ctx context.Context, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (gold-premiums)")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	text, err := extractPriceText(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("extract price from %s: %w", url, err)
	}
	price, err := parsePriceText(text)
	if err != nil {
		return 0, fmt.Errorf("parse price %q from %s: %w", text, url, err)
	}
	return price, nil
}

// FetchPrices fetches all bars concurrently. Unreachable or sold-out bars
// are reported as absent from the map rather than failing the whole run.
func (c *ShopClient) FetchPrices(ctx context.Context, bars []Bar) map[string]float64 {
	var mu sync.Mutex
	prices := make(map[string]float64, len(bars))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.FetchLimit)
	for _, bar := range bars {
		g.Go(func() error {
			price, err := c.FetchPrice(gctx, bar.URL)
			if err != nil {
				slog.WarnContext(gctx, "Bar price unavailable", "bar", bar.Label, "error", err)
				return nil // one missing bar must not cancel the others
			}
			mu.Lock()
			prices[bar.Label] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return prices
}

// extractPriceText walks the parsed document looking for the price span.
func extractPriceText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "span" {
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val == priceSpanID {
					found = n
					return
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	if found == nil {
		return "", fmt.Errorf("price span #%s not found (sold out?)", priceSpanID)
	}

	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(found)
	return strings.TrimSpace(sb.String()), nil
}

// parsePriceText normalizes "1 234,56 EUR" to 1234.56.
func parsePriceText(text string) (float64, error) {
	s := strings.ReplaceAll(text, "EUR", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking spaces in thousands
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price text")
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %v", price)
	}
	return price, nil
}
