package seo

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"
)

// OpenGraph is the og:* block of a page
type OpenGraph struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Image       string           `json:"image,omitempty"`
	URL         string           `json:"url"`
	Type        string           `json:"type"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    string           `json:"currency,omitempty"`
}

// Twitter is the twitter:* card of a page
type Twitter struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Brand is a schema.org Brand
type Brand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Offer is a schema.org Offer
type Offer struct {
	Type          string          `json:"@type"`
	Price         decimal.Decimal `json:"price"`
	PriceCurrency string          `json:"priceCurrency"`
	Availability  string          `json:"availability"`
	URL           string          `json:"url"`
}

// AggregateRating is a schema.org AggregateRating
type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}

// StructuredData is the schema.org Product JSON-LD of a product page
type StructuredData struct {
	Context         string          `json:"@context"`
	Type            string          `json:"@type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Image           string          `json:"image"`
	SKU             string          `json:"sku"`
	Brand           Brand           `json:"brand"`
	Offers          Offer           `json:"offers"`
	AggregateRating AggregateRating `json:"aggregateRating"`
}

// ProductMeta is the SEO metadata of a product page
type ProductMeta struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Keywords       []string       `json:"keywords"`
	Canonical      string         `json:"canonical"`
	Slug           string         `json:"slug"`
	OpenGraph      OpenGraph      `json:"openGraph"`
	Twitter        Twitter        `json:"twitter"`
	StructuredData StructuredData `json:"structuredData"`
}

// CategoryMeta is the SEO metadata of a category page
type CategoryMeta struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Keywords     []string  `json:"keywords"`
	Canonical    string    `json:"canonical"`
	ProductCount int       `json:"productCount"`
	OpenGraph    OpenGraph `json:"openGraph"`
	Twitter      Twitter   `json:"twitter"`
}

// PageMeta holds the static tags of a content page
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// MetaRequest names a content page
type MetaRequest struct {
	Page string `json:"page"`
}

// SitemapEntry is one URL of the sitemap
type SitemapEntry struct {
	URL          string    `json:"url"`
	LastModified time.Time `json:"lastModified"`
	Priority     float64   `json:"priority"`
}

// Sitemap groups the indexable URLs of the store
type Sitemap struct {
	Products   []SitemapEntry `json:"products"`
	Categories []SitemapEntry `json:"categories"`
	Brands     []SitemapEntry `json:"brands"`
	Static     []SitemapEntry `json:"static"`
}

// URLSet is the sitemaps.org XML document
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one <url> element of a sitemaps.org document
type URL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod"`
	Priority string `xml:"priority"`
}
