package lookups

// Symbols of legal values
// one meal-plan entry per owner, day and slot
const (
	MealSlotBreakfast = int32(iota)
	MealSlotLunch
	MealSlotDinner
	MealSlotSnack
)

// MealSlot returns a "generic" string for a given value
func MealSlot(value int32) string {

	var str = ""

	switch {
	case value == MealSlotBreakfast:
		str = "breakfast"
	case value == MealSlotLunch:
		str = "lunch"
	case value == MealSlotDinner:
		str = "dinner"
	case value == MealSlotSnack:
		str = "snack"
	}

	return str
}

// MealSlotValid checks a given code against the registry
func MealSlotValid(value int32) bool {
	return value >= MealSlotBreakfast && value <= MealSlotSnack
}
