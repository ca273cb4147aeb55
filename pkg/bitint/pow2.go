// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-2 helpers the analysis package needs to
size FFT buffers.

NextPowerOfTwo returns the next power of 2 greater than or equal to size.
For powers of 2 it returns the same value.

The subtraction (size-1) is what keeps exact powers of 2 unchanged:

	size 8:  bits.Len(7) = 3, 1 << 3 = 8
	size 9:  bits.Len(8) = 4, 1 << 4 = 16

Without it, 8 would become 16.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}
