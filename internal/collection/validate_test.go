package collection

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Item)
		wantErr bool
	}{
		{"valid", func(*Item) {}, false},
		{"blank title", func(it *Item) { it.Title = "  " }, true},
		{"unknown category", func(it *Item) { it.Category = "textiles" }, true},
		{"unknown period", func(it *Item) { it.Period = "tudor" }, true},
		{"no price", func(it *Item) { it.Price = "" }, true},
		{"no description", func(it *Item) { it.Description = "" }, true},
		{"only blank images", func(it *Item) { it.Images = []string{"", "  "} }, true},
		{"nil images", func(it *Item) { it.Images = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := sampleItem()
			tt.mutate(&it)
			err := Validate(&it)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidItem) {
					t.Errorf("Validate() = %v, want ErrInvalidItem", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestValidateTrims(t *testing.T) {
	it := sampleItem()
	it.Title = "  Bronze Stag  "
	it.Images = []string{" /assets/a.jpg ", ""}
	if err := Validate(&it); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if it.Title != "Bronze Stag" {
		t.Errorf("Title = %q", it.Title)
	}
	if len(it.Images) != 1 || it.Images[0] != "/assets/a.jpg" {
		t.Errorf("Images = %q", it.Images)
	}
}

func TestFilterMatch(t *testing.T) {
	it := Item{Category: CategorySilver, Period: PeriodGeorgian, Featured: false}

	if !(Filter{}).Match(it) {
		t.Error("empty filter should match")
	}
	if !(Filter{Category: CategorySilver}).Match(it) {
		t.Error("category filter should match")
	}
	if (Filter{Period: PeriodVictorian}).Match(it) {
		t.Error("period filter should not match")
	}
	if (Filter{FeaturedOnly: true}).Match(it) {
		t.Error("featured filter should not match")
	}
}

func TestItemPatchApply(t *testing.T) {
	orig := sampleItem()
	title := "New Title"
	images := []string{"/x.jpg"}
	got := ItemPatch{Title: &title, Images: &images}.Apply(orig)

	if got.Title != "New Title" || got.Price != orig.Price {
		t.Errorf("Apply = %+v", got)
	}
	images[0] = "/changed.jpg"
	if got.Images[0] != "/x.jpg" {
		t.Error("Apply shares the patch image slice")
	}
}
