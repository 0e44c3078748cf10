package indexing

// RateToColor maps a rating or difficulty value to its display color band.
func RateToColor(rate int) string {
	switch {
	case rate < 400:
		return "gray"
	case rate < 800:
		return "brown"
	case rate < 1200:
		return "green"
	case rate < 1600:
		return "cyan"
	case rate < 2000:
		return "blue"
	case rate < 2400:
		return "yellow"
	case rate < 2800:
		return "orange"
	case rate < 3200:
		return "red"
	case rate < 3600:
		return "silver"
	default:
		return "gold"
	}
}
