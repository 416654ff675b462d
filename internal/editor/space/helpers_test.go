package space

import "github.com/chewxy/math32"

const math32Pi = math32.Pi

func isNaN(f float32) bool {
	return math32.IsNaN(f)
}
