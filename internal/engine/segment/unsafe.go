package segment

import "unsafe"

// unsafeString views b as a string without copying. The caller must ensure
// the backing array outlives the returned string — here that's guaranteed
// by Str keeping a reference to the owning Segment.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
