package flipkart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-scout/models"
	"price-scout/scraper"
	"price-scout/utils"
)

const searchPage = `<html><body>
<div class="cPHDOP">
  <div class="KzDlHZ">Logitech M331 Silent Plus Wireless Mouse</div>
  <div class="Nx9bqj">₹1,195</div>
  <a class="CGtC98" href="/logitech-m331/p/itm1?pid=ACC1">view</a>
</div>
<div class="cPHDOP">
  <a class="wjcEIp" href="/hp-x200/p/itm2">HP X200 Wireless Mouse</a>
  <div class="Nx9bqj">₹599</div>
</div>
<div class="cPHDOP"><span>Filters</span></div>
</body></html>`

func TestFlipkartSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	src := scraper.NewMarkupSource(RulesFor(srv.URL), scraper.NewHTTPFetcher(srv.Client(), nil), utils.NewNopLogger(), nil)
	got := src.Fetch(context.Background(), "wireless mouse")

	assert.Equal(t, "wireless mouse", gotQuery)
	require.Len(t, got, 2)
	assert.Equal(t, "Logitech M331 Silent Plus Wireless Mouse", got[0].Name)
	assert.Equal(t, 1195.0, got[0].Price)
	assert.Equal(t, srv.URL+"/logitech-m331/p/itm1?pid=ACC1", got[0].Link)
	assert.Equal(t, models.StoreFlipkart, got[0].Store)

	assert.Equal(t, "HP X200 Wireless Mouse", got[1].Name)
	assert.Equal(t, srv.URL+"/hp-x200/p/itm2", got[1].Link)
}

func TestFlipkartMixedLayouts(t *testing.T) {
	page := `<html><body>
<div class="_1AtVbE"><div class="filters">Sort By</div></div>
<div class="cPHDOP"><div class="KzDlHZ">Dell WM118</div><div class="Nx9bqj">₹649</div><a class="CGtC98" href="/dell/p/itm3">v</a></div>
<div class="cPHDOP"><div class="KzDlHZ">HP X200</div><div class="Nx9bqj">₹599</div><a class="CGtC98" href="/hp/p/itm4">v</a></div>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	src := scraper.NewMarkupSource(RulesFor(srv.URL), scraper.NewHTTPFetcher(srv.Client(), nil), utils.NewNopLogger(), nil)
	got := src.Fetch(context.Background(), "mouse")

	require.Len(t, got, 2)
	assert.Equal(t, "Dell WM118", got[0].Name)
	assert.Equal(t, "HP X200", got[1].Name)
}

func TestFlipkartBlockedIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	src := scraper.NewMarkupSource(RulesFor(srv.URL), scraper.NewHTTPFetcher(srv.Client(), nil), utils.NewNopLogger(), nil)
	got := src.Fetch(context.Background(), "mouse")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFlipkartRules(t *testing.T) {
	r := Rules()
	assert.Equal(t, "https://www.flipkart.com", r.BaseURL)
	assert.Equal(t, "https://www.flipkart.com/search?marketplace=FLIPKART&otracker=search&q=wireless+mouse", r.SearchURL("wireless mouse"))
}
