package collection

// DefaultItems is the starter catalog a fresh store is seeded with.
func DefaultItems() []Item {
	return []Item{
		{
			Title:       "Georgian Mahogany Chest of Drawers",
			Category:    CategoryFurniture,
			Period:      PeriodGeorgian,
			Price:       "£2,850",
			Description: "Fine Georgian mahogany chest of drawers, circa 1780. Excellent condition with original brass handles.",
			Images: []string{
				"/assets/Mt8UIYp8PTe2.jpg",
				"/assets/tTImFRDPoRDj.jpeg",
				"/assets/sfeOCW3PpbdO.jpg",
				"/assets/tiu3erQLS4iG.jpg",
			},
			Featured: true,
		},
		{
			Title:       "Worcester Porcelain Tea Service",
			Category:    CategoryPorcelain,
			Period:      PeriodGeorgian,
			Price:       "£1,650",
			Description: "Complete Worcester porcelain tea service with hand-painted floral decoration, circa 1770.",
			Images: []string{
				"/assets/3Ve7fIDsNkcE.jpg",
				"/assets/p6GYsWrjGQ0e.jpg",
				"/assets/ytfV1HOvkAPe.jpg",
				"/assets/SVOvjw1Lbrk6.jpg",
			},
			Featured: true,
		},
		{
			Title:       "Georgian Silver Teapot",
			Category:    CategorySilver,
			Period:      PeriodGeorgian,
			Price:       "£3,200",
			Description: "Elegant Georgian silver teapot with engraved family crest, hallmarked London 1799.",
			Images: []string{
				"/assets/CUzmGlTD6XgC.jpg",
				"/assets/nwv9j9FK4ih3.jpg",
				"/assets/wMisKx9aOxtX.jpg",
			},
		},
		{
			Title:       "Antique Map of Great Britain",
			Category:    CategoryPrints,
			Period:      PeriodVictorian,
			Price:       "£450",
			Description: "Hand-colored antique map of Great Britain, published circa 1850. Excellent condition.",
			Images: []string{
				"/assets/gSXtuMGRIxnv.jpg",
				"/assets/Z31aNeNDuGal.jpg",
				"/assets/OHNjl9MMA3zE.jpg",
			},
		},
		{
			Title:       "Regency Bronze Sphinx",
			Category:    CategorySculpture,
			Period:      PeriodRegency,
			Price:       "£4,500",
			Description: "Magnificent Regency bronze sphinx on marble base, Grand Tour souvenir circa 1820.",
			Images: []string{
				"/assets/IC2twac2TJSu.jpg",
				"/assets/9FMV67VjRztJ.jpg",
				"/assets/Unr6lpdoQf9y.jpg",
			},
			Featured: true,
		},
		{
			Title:       "Victorian Decorative Box",
			Category:    CategoryDecorative,
			Period:      PeriodVictorian,
			Price:       "£680",
			Description: "Ornate Victorian decorative box with intricate metalwork and enamel details.",
			Images: []string{
				"/assets/T1Iq0trCBhRF.jpg",
				"/assets/CcGpx6xQiJqw.jpg",
				"/assets/t2w5tmjgermH.jpg",
			},
		},
	}
}
