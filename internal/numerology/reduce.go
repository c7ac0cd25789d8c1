package numerology

// Reduce sums the decimal digits of n until a single digit remains. When allowMasters is set the
// reduction stops early at the master numbers 11 and 22.
func Reduce(n int, allowMasters bool) int {
	for n > 9 && !(allowMasters && IsMaster(n)) {
		n = DigitSum(n)
	}
	return n
}

// IsMaster reports whether n is a master number.
func IsMaster(n int) bool {
	return n == 11 || n == 22
}

// DigitSum returns the sum of the decimal digits of n.
func DigitSum(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
