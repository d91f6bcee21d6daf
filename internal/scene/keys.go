package scene

// BerlinAGS is the county key under which the Berlin districts are drawn.
const BerlinAGS = 11000

// BerlinLabel names a Berlin region joined from district geometries.
const BerlinLabel = "Berlin"

// NormalizeKey maps the twelve Berlin district keys (11001-11012) onto the
// single Berlin county; every other key is returned unchanged.
func NormalizeKey(ags int) int {
	if ags > BerlinAGS && ags <= BerlinAGS+12 {
		return BerlinAGS
	}
	return ags
}
