package report

// BasePalette colors up to six buckets.
var BasePalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40"}

// ExtendedPalette is cycled when there are more than six buckets.
var ExtendedPalette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#C9CBCF", "#E7E9ED", "#6C63FF", "#2EC4B6",
	"#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6",
	"#3498DB", "#1ABC9C", "#D35400", "#7F8C8D", "#F1C40F",
}

// Colorize returns a copy of buckets with colors assigned by rank. The color
// belongs to the position, not the category: a category that changes rank
// between recomputations changes color too.
func Colorize(buckets []Bucket) []Bucket {
	palette := BasePalette
	if len(buckets) > len(BasePalette) {
		palette = ExtendedPalette
	}

	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		b.Color = palette[i%len(palette)]
		out[i] = b
	}
	return out
}
