package services

import (
	"context"
	"fmt"
)

// DefaultServices is the starter content for the services page.
func DefaultServices() []Input {
	return []Input{
		{
			Title:       "Authentication & Expertise",
			Description: "Each piece in our collection is thoroughly researched and authenticated, with detailed provenance when available.",
			Features: Features{
				"Professional authentication certificates",
				"Detailed condition reports",
				"Historical research and documentation",
				"Provenance verification",
				"Expert opinion letters",
			},
			Pricing: "From £150",
		},
		{
			Title:       "UK & Worldwide Shipping",
			Description: "Based in Newark, UK, we offer comprehensive shipping throughout the UK and internationally, with white-glove delivery for special pieces.",
			Features: Features{
				"FREE UK shipping on orders over £500",
				"Next-day UK delivery available",
				"Professional packing and crating",
				"Fully insured international shipping",
				"White-glove delivery service",
				"Customs documentation assistance",
				"Tracking and delivery confirmation",
			},
			Pricing: "UK: From £25 | International: Calculated by destination",
		},
		{
			Title:       "Interior Design Consultation",
			Description: "Professional guidance for collectors and designers seeking period-appropriate pieces.",
			Features: Features{
				"Period-appropriate piece selection",
				"Room design consultation",
				"Color and style coordination",
				"Historical context guidance",
				"Custom sourcing recommendations",
			},
			Pricing: "From £200 per consultation",
		},
		{
			Title:       "Valuations",
			Description: "Expert appraisals for insurance, probate, or sale purposes.",
			Features: Features{
				"Insurance valuations",
				"Probate appraisals",
				"Market value assessments",
				"Written valuation reports",
				"Court-accepted documentation",
			},
			Pricing: "From £100 per item",
		},
		{
			Title:       "Restoration Recommendations",
			Description: "Trusted network of specialist conservators and restorers.",
			Features: Features{
				"Specialist conservator referrals",
				"Restoration project management",
				"Quality assurance oversight",
				"Historical accuracy guidance",
				"Progress monitoring",
			},
			Pricing: "Consultation included",
		},
		{
			Title:       "Commission Searches",
			Description: "We can source specific pieces to meet your particular requirements.",
			Features: Features{
				"Bespoke piece sourcing",
				"Estate and auction monitoring",
				"Private collection access",
				"Specific period expertise",
				"Worldwide dealer network",
			},
			Pricing: "No fee unless successful",
		},
	}
}

// Seed adds DefaultServices when the store is empty.
func Seed(ctx context.Context, s *Store) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking existing services: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for _, in := range DefaultServices() {
		if _, err := s.Create(ctx, in); err != nil {
			return n, fmt.Errorf("seeding %q: %w", in.Title, err)
		}
		n++
	}
	return n, nil
}
