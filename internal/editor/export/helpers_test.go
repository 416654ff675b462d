package export

import "github.com/chewxy/math32"

const math32HalfPi = math32.Pi / 2
