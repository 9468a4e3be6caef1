package service

import (
	"golang-econ-reporter/internal/reporter/dto"
)

// SourceRoute describes which adapter serves an indicator and the
// source-native key to fetch it with.
type SourceRoute struct {
	Source  dto.DataSource
	Key     string
	Country string // World Bank only
}

// fredSeries maps indicator ids to FRED series ids.
var fredSeries = map[string]string{
	// rates / monetary policy
	"fed_funds_rate":        "DFF",
	"us_10y_treasury":       "DGS10",
	"us_2y_treasury":        "DGS2",
	"us_yield_spread_10y2y": "T10Y2Y",
	// inflation
	"us_cpi": "CPIAUCSL",
	"us_pce": "PCEPI",
	"us_ppi": "PPIFES",
	// employment
	"us_unemployment": "UNRATE",
	"us_nfp":          "PAYEMS",
	// growth
	"us_gdp": "GDPC1",
	// markets
	"sp500":  "SP500",
	"nasdaq": "NASDAQCOM",
	"vix":    "VIXCLS",
	// fx / commodities
	"usd_krw":   "DEXKOUS",
	"dxy":       "DTWEXBGS",
	"wti_crude": "DCOILWTICO",
	"gold":      "GOLDAMGBD228NLBM",
}

// yahooTickers maps indicator ids to Yahoo Finance tickers. FRED wins
// for ids present in both tables.
var yahooTickers = map[string]string{
	"sp500":     "^GSPC",
	"nasdaq":    "^IXIC",
	"vix":       "^VIX",
	"dxy":       "DX-Y.NYB",
	"usd_krw":   "KRW=X",
	"wti_crude": "CL=F",
	"gold":      "GC=F",
	"kospi":     "^KS11",
	"kosdaq":    "^KQ11",
}

// worldBankSeries maps indicator ids to (country, World Bank indicator).
var worldBankSeries = map[string]SourceRoute{
	"kr_gdp":          {Source: dto.SourceWorldBank, Country: "KOR", Key: "NY.GDP.MKTP.CD"},
	"kr_cpi":          {Source: dto.SourceWorldBank, Country: "KOR", Key: "FP.CPI.TOTL.ZG"},
	"kr_unemployment": {Source: dto.SourceWorldBank, Country: "KOR", Key: "SL.UEM.TOTL.ZS"},
}

// SourceRouter maps an indicator id to the data source that serves it.
// Pure lookup, no side effects.
type SourceRouter struct{}

// NewSourceRouter creates a new SourceRouter.
func NewSourceRouter() *SourceRouter {
	return &SourceRouter{}
}

// Route resolves the adapter for an indicator id. The second return is
// false when no source supports the indicator.
func (r *SourceRouter) Route(indicatorID string) (SourceRoute, bool) {
	if seriesID, ok := fredSeries[indicatorID]; ok {
		return SourceRoute{Source: dto.SourceFRED, Key: seriesID}, true
	}
	if ticker, ok := yahooTickers[indicatorID]; ok {
		return SourceRoute{Source: dto.SourceYahoo, Key: ticker}, true
	}
	if route, ok := worldBankSeries[indicatorID]; ok {
		return route, true
	}
	return SourceRoute{Source: dto.SourceUnknown}, false
}
