package collection

import "time"

// Category is the kind of antique an item is listed under.
type Category string

const (
	CategoryFurniture  Category = "furniture"
	CategoryPorcelain  Category = "porcelain"
	CategorySilver     Category = "silver"
	CategoryPrints     Category = "prints"
	CategorySculpture  Category = "sculpture"
	CategoryDecorative Category = "decorative"
)

// Period is the historical period an item dates from.
type Period string

const (
	PeriodGeorgian  Period = "georgian"
	PeriodRegency   Period = "regency"
	PeriodVictorian Period = "victorian"
	PeriodEdwardian Period = "edwardian"
)

// Item is a single catalog entry. Images is the ordered sequence shown in
// the 360° viewer.
type Item struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	Title       string    `json:"title" yaml:"title"`
	Category    Category  `json:"category" yaml:"category"`
	Period      Period    `json:"period" yaml:"period"`
	Price       string    `json:"price" yaml:"price"`
	Description string    `json:"description" yaml:"description"`
	Images      []string  `json:"images" yaml:"images"`
	Featured    bool      `json:"featured" yaml:"featured"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// ItemPatch carries the fields to change in Update. Nil fields are left as is.
type ItemPatch struct {
	Title       *string   `json:"title,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Period      *Period   `json:"period,omitempty"`
	Price       *string   `json:"price,omitempty"`
	Description *string   `json:"description,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
}

// Apply returns a copy of it with the patch applied.
func (p ItemPatch) Apply(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Period != nil {
		it.Period = *p.Period
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Images != nil {
		it.Images = append([]string(nil), (*p.Images)...)
	}
	if p.Featured != nil {
		it.Featured = *p.Featured
	}
	return it
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category     Category
	Period       Period
	FeaturedOnly bool
}

// Match reports whether it passes the filter.
func (f Filter) Match(it Item) bool {
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Period != "" && it.Period != f.Period {
		return false
	}
	if f.FeaturedOnly && !it.Featured {
		return false
	}
	return true
}

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories lists the known categories in display order.
var Categories = []Option{
	{string(CategoryFurniture), "Period Furniture"},
	{string(CategoryPorcelain), "Ceramics & Porcelain"},
	{string(CategorySilver), "Silver & Sheffield Plate"},
	{string(CategoryPrints), "Antique Prints"},
	{string(CategorySculpture), "Sculpture & Bronzes"},
	{string(CategoryDecorative), "Decorative Arts"},
}

// Periods lists the known periods in chronological order.
var Periods = []Option{
	{string(PeriodGeorgian), "Georgian (1714-1830)"},
	{string(PeriodRegency), "Regency (1811-1820)"},
	{string(PeriodVictorian), "Victorian (1837-1901)"},
	{string(PeriodEdwardian), "Edwardian (1901-1910)"},
}
