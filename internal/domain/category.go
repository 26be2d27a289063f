package domain

// Category - тег категории объявления (закрытый список)
type Category string

// Listing categories. Добавление новой категории - изменение модели данных, а не конфигурации.
const (
	CategoryRooms        Category = "Rooms"
	CategoryIconicCities Category = "Iconic Cities"
	CategoryMountains    Category = "Mountains"
	CategoryCamping      Category = "Camping"
	CategoryCastles      Category = "Castles"
	CategoryFarms        Category = "Farms"
	CategoryAmazingPools Category = "Amazing Pools"
	CategoryDome         Category = "Dome"
	CategoryBoats        Category = "Boats"
	CategoryArctic       Category = "Arctic"
)

var categories = []Category{
	CategoryRooms,
	CategoryIconicCities,
	CategoryMountains,
	CategoryCamping,
	CategoryCastles,
	CategoryFarms,
	CategoryAmazingPools,
	CategoryDome,
	CategoryBoats,
	CategoryArctic,
}

// Categories возвращает все допустимые категории в порядке отображения
func Categories() []Category {
	result := make([]Category, len(categories))
	copy(result, categories)
	return result
}

// IsValidCategory проверяет, входит ли значение в перечисление
func IsValidCategory(value string) bool {
	for _, c := range categories {
		if string(c) == value {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
