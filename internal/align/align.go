// Package align holds the rounding arithmetic shared by the allocators.
// All helpers assume a positive power-of-two boundary.
package align

// IsPow2 reports whether n is a positive power of two.
//
// Example:
//
//	IsPow2(0)  = false
//	IsPow2(1)  = true
//	IsPow2(48) = false
//	IsPow2(64) = true
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Up returns n rounded up to the next multiple of boundary.
//
// Example:
//
//	Up(1, 64)   = 64
//	Up(64, 64)  = 64
//	Up(65, 64)  = 128
//	Up(0, 64)   = 0
func Up(n, boundary int) int {
	mask := boundary - 1
	return (n + mask) &^ mask
}

// Offset returns how many bytes must be skipped from addr to reach the next
// multiple of boundary.
func Offset(addr uintptr, boundary int) int {
	mask := uintptr(boundary - 1)
	return int((boundary - int(addr&mask)) & int(mask))
}
