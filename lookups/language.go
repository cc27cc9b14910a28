package lookups

// Symbols of legal values
const (
	LangEN = int32(iota)
	LangDE
)

// Language returns a "generic" string for a given value
func Language(value int32) string {

	var str = ""

	switch {
	case value == LangEN:
		str = "en"
	case value == LangDE:
		str = "de"
	}

	return str
}
