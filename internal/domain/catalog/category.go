package catalog

// Category is a storefront department a product name is requested for
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryHomeGoods   Category = "home goods"
	CategoryBeauty      Category = "beauty"
	CategoryClothing    Category = "clothing"
	CategoryOutdoorGear Category = "outdoor gear"
)

// AllCategories returns the categories product names are drawn from, in a fixed order
func AllCategories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryHomeGoods,
		CategoryBeauty,
		CategoryClothing,
		CategoryOutdoorGear,
	}
}

// IsValid checks if the category is one of the known departments
func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryHomeGoods, CategoryBeauty, CategoryClothing, CategoryOutdoorGear:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}
