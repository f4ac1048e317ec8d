package math

// U8Vec3 is a packed 8-bit-per-channel color, used for the quantized LDR
// image buffer (spec.md §3).
type U8Vec3 struct {
	X, Y, Z uint8
}

// U32Vec3 holds a triangle's three vertex indices (spec.md §3 "Primitive").
type U32Vec3 struct {
	X, Y, Z uint32
}
