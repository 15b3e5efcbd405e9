package common

// WipeByteArray overwrites buf with zeros. Used to scrub secrets (session
// tokens read from the terminal) once they are no longer needed.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
