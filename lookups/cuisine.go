package lookups

// Symbols of legal values
// texts are maintained in the system collection (see database/lookup.go),
// the codes here are just for programmatic access
const (
	CuisineOther = int32(iota)
	CuisineItalian
	CuisineFrench
	CuisineIndian
	CuisineChinese
	CuisineJapanese
	CuisineMexican
	CuisineThai
	CuisineMediterranean
)

// recipe categories
const (
	CategoryMain = int32(iota)
	CategoryStarter
	CategoryDessert
	CategorySalad
	CategorySoup
	CategoryBaking
	CategoryDrink
)
