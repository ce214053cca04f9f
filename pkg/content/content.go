// Package content carries the declarative site data the rendering surfaces
// display: company details, navigation, hero copy, service cards and the
// testimonials the carousel rotates. Testimonial quotes may contain markup
// from the site's CMS era; it is stripped to plain text at load time since
// terminals render no HTML.
package content

import (
	_ "embed"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

// Company identifies the site owner.
type Company struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
}

// Page is one navigation entry.
type Page struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Hero is the landing banner copy.
type Hero struct {
	Heading    string `yaml:"heading"`
	Subheading string `yaml:"subheading"`
}

// Service is one offering card.
type Service struct {
	Title string `yaml:"title"`
	Blurb string `yaml:"blurb"`
}

// Testimonial is one carousel slide.
type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
	Role   string `yaml:"role"`
}

// Site is the full content tree.
type Site struct {
	Company      Company       `yaml:"company"`
	Nav          []Page        `yaml:"nav"`
	Hero         Hero          `yaml:"hero"`
	Services     []Service     `yaml:"services"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

// Load parses the embedded site data.
func Load() (*Site, error) {
	return Parse(defaultSite)
}

// Parse decodes site data and strips markup from testimonial quotes.
func Parse(raw []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("content: parse site data: %w", err)
	}

	policy := bluemonday.StrictPolicy()
	for i := range site.Testimonials {
		site.Testimonials[i].Quote = plainText(policy, site.Testimonials[i].Quote)
	}
	return &site, nil
}

// Copyright renders the footer line for the current year.
func (s *Site) Copyright(now time.Time) string {
	return fmt.Sprintf("© %d %s. All rights reserved.", now.Year(), s.Company.Name)
}

func plainText(policy *bluemonday.Policy, s string) string {
	stripped := policy.Sanitize(s)
	// The strict policy entity-escapes what it keeps; undo that for plain
	// terminal text.
	return strings.TrimSpace(html.UnescapeString(stripped))
}
