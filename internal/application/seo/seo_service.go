// Package seo builds search-engine metadata, the sitemap and robots.txt.
package seo

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
)

const (
	maxDescriptionRunes = 160
	maxSocialRunes      = 200
	sitemapNamespace    = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// Settings describes the public site
type Settings struct {
	SiteURL  string
	SiteName string
}

// Service builds SEO documents from the catalog
type Service struct {
	productRepo catalog.ProductRepository
	settings    Settings
	now         func() time.Time
}

// NewService creates a new SEO service
func NewService(productRepo catalog.ProductRepository, settings Settings) *Service {
	return &Service{
		productRepo: productRepo,
		settings:    settings,
		now:         time.Now,
	}
}

func (s *Service) absolute(path string) string {
	return s.settings.SiteURL + path
}

// Product returns the metadata of a product page
func (s *Service) Product(ctx context.Context, id uuid.UUID) (*ProductMeta, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	canonical := s.absolute("/products/" + p.ID.String())
	social := truncate(p.Description, maxSocialRunes)
	availability := "OutOfStock"
	if p.CountInStock > 0 {
		availability = "InStock"
	}
	keywords := []string{p.Name, p.Category}
	if p.Brand != "" {
		keywords = append(keywords, p.Brand)
	}
	keywords = append(keywords, p.Tags...)
	keywords = append(keywords, "منتجات مغربية", "منتجات طبيعية", s.settings.SiteName)
	price := p.PriceMAD

	return &ProductMeta{
		Title:       fmt.Sprintf("%s - %s", p.Name, s.settings.SiteName),
		Description: truncate(p.Description, maxDescriptionRunes),
		Keywords:    keywords,
		Canonical:   canonical,
		Slug:        Slugify(p.Name),
		OpenGraph: OpenGraph{
			Title:       p.Name,
			Description: social,
			Image:       p.Image,
			URL:         canonical,
			Type:        "product",
			Price:       &price,
			Currency:    "MAD",
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       p.Name,
			Description: social,
			Image:       p.Image,
		},
		StructuredData: StructuredData{
			Context:     "https://schema.org",
			Type:        "Product",
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			SKU:         p.ID.String(),
			Brand:       Brand{Type: "Brand", Name: p.Brand},
			Offers: Offer{
				Type:          "Offer",
				Price:         p.PriceMAD,
				PriceCurrency: "MAD",
				Availability:  availability,
				URL:           canonical,
			},
			AggregateRating: AggregateRating{
				Type:        "AggregateRating",
				RatingValue: p.Rating,
				ReviewCount: p.NumReviews,
			},
		},
	}, nil
}

// Category returns the metadata of a category page
func (s *Service) Category(ctx context.Context, category string) (*CategoryMeta, error) {
	_, total, err := s.productRepo.Search(ctx, catalog.ProductQuery{
		Category:   category,
		ActiveOnly: true,
		Page:       1,
		PageSize:   1,
	})
	if err != nil {
		return nil, err
	}
	name := DisplayName(category)
	title := fmt.Sprintf("%s - %s", name, s.settings.SiteName)
	description := fmt.Sprintf("اكتشف أفضل %s المغربية عالية الجودة. مجموعة واسعة من المنتجات الطبيعية والعضوية بأفضل الأسعار.", name)
	short := fmt.Sprintf("اكتشف أفضل %s المغربية عالية الجودة", name)
	canonical := s.absolute("/category/" + url.PathEscape(category))

	return &CategoryMeta{
		Title:       title,
		Description: description,
		Keywords: []string{
			category,
			category + " مغربية",
			"منتجات " + category,
			"منتجات طبيعية",
			s.settings.SiteName,
		},
		Canonical:    canonical,
		ProductCount: int(total),
		OpenGraph: OpenGraph{
			Title:       title,
			Description: short,
			URL:         canonical,
			Type:        "website",
		},
		Twitter: Twitter{
			Card:        "summary",
			Title:       title,
			Description: short,
		},
	}, nil
}

var staticPages = []struct {
	path     string
	priority float64
}{
	{"/", 1.0},
	{"/about", 0.5},
	{"/contact", 0.5},
	{"/terms", 0.3},
	{"/privacy", 0.3},
}

// Sitemap lists the active products, categories, brands and static pages
func (s *Service) Sitemap(ctx context.Context) (*Sitemap, error) {
	products, err := s.productRepo.FindAll(ctx, shared.Filter{OrderBy: "updated_at", OrderDir: "desc"})
	if err != nil {
		return nil, err
	}
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.productRepo.Brands(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sm := &Sitemap{
		Products:   make([]SitemapEntry, 0, len(products)),
		Categories: make([]SitemapEntry, 0, len(categories)),
		Brands:     make([]SitemapEntry, 0, len(brands)),
		Static:     make([]SitemapEntry, 0, len(staticPages)),
	}
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		sm.Products = append(sm.Products, SitemapEntry{URL: "/products/" + p.ID.String(), LastModified: p.UpdatedAt, Priority: 0.8})
	}
	for _, c := range categories {
		sm.Categories = append(sm.Categories, SitemapEntry{URL: "/category/" + url.PathEscape(c), LastModified: now, Priority: 0.7})
	}
	for _, b := range brands {
		sm.Brands = append(sm.Brands, SitemapEntry{URL: "/brand/" + url.PathEscape(b), LastModified: now, Priority: 0.6})
	}
	for _, page := range staticPages {
		sm.Static = append(sm.Static, SitemapEntry{URL: page.path, LastModified: now, Priority: page.priority})
	}
	return sm, nil
}

// SitemapXML renders the sitemap as a sitemaps.org urlset
func (s *Service) SitemapXML(ctx context.Context) ([]byte, error) {
	sm, err := s.Sitemap(ctx)
	if err != nil {
		return nil, err
	}
	set := URLSet{Xmlns: sitemapNamespace}
	for _, group := range [][]SitemapEntry{sm.Static, sm.Products, sm.Categories, sm.Brands} {
		for _, e := range group {
			set.URLs = append(set.URLs, URL{
				Loc:      s.absolute(e.URL),
				LastMod:  e.LastModified.UTC().Format("2006-01-02"),
				Priority: strconv.FormatFloat(e.Priority, 'f', 1, 64),
			})
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots returns the robots.txt body
func (s *Service) Robots() string {
	return `User-agent: *
Allow: /
Allow: /products/
Allow: /category/
Allow: /brand/

Disallow: /admin/
Disallow: /api/
Disallow: /login/
Disallow: /register/
Disallow: /cart/
Disallow: /checkout/

Sitemap: ` + s.absolute("/api/seo/sitemap?format=xml") + "\n"
}

// Meta returns the tags of a content page. Unknown pages get the home tags.
func (s *Service) Meta(req MetaRequest) PageMeta {
	name := s.settings.SiteName
	pages := map[string]PageMeta{
		"home": {
			Title:       name + " - منتجات مغربية أصلية",
			Description: "اكتشف أفضل المنتجات المغربية الأصلية من زيوت طبيعية، أعشاب، ومنتجات عضوية عالية الجودة. توصيل سريع في جميع أنحاء المغرب.",
			Keywords:    "منتجات مغربية, زيوت طبيعية, أعشاب مغربية, منتجات عضوية, " + name,
		},
		"about": {
			Title:       "من نحن - " + name,
			Description: name + " هو متجر إلكتروني مغربي متخصص في تقديم أفضل المنتجات المغربية الأصلية عالية الجودة.",
			Keywords:    name + ", من نحن, منتجات مغربية, متجر مغربي",
		},
		"contact": {
			Title:       "اتصل بنا - " + name,
			Description: "تواصل مع فريق " + name + " للحصول على الدعم أو الاستفسارات حول منتجاتنا.",
			Keywords:    "اتصل بنا, دعم " + name + ", استفسارات",
		},
	}
	if meta, ok := pages[req.Page]; ok {
		return meta
	}
	return pages["home"]
}
