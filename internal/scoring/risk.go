package scoring

// Category is the risk band of an integer score.
type Category string

const (
	CategoryVeryBad    Category = "Muy Malo"
	CategoryBad        Category = "Malo"
	CategoryMedium     Category = "Medio"
	CategoryGood       Category = "Bueno"
	CategoryVeryGood   Category = "Muy Bueno"
	CategoryOutOfRange Category = "fuera de rango"
)

// Categories lists the in-range bands from worst to best.
var Categories = []Category{
	CategoryVeryBad,
	CategoryBad,
	CategoryMedium,
	CategoryGood,
	CategoryVeryGood,
}

var scoreEdges = [...]int{0, 200, 400, 600, 800, 1000}

// Classify places score in one of the half-open bands [0,200) .. [800,1000].
// 1000 belongs to the top band; anything outside [0,1000] is out of range.
func Classify(score int) Category {
	if score < scoreEdges[0] || score > scoreEdges[len(scoreEdges)-1] {
		return CategoryOutOfRange
	}
	for i := 1; i < len(scoreEdges); i++ {
		if score < scoreEdges[i] {
			return Categories[i-1]
		}
	}
	return CategoryVeryGood
}

// InRange reports whether c is one of the five bands.
func (c Category) InRange() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
