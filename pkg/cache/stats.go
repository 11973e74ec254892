package cache

// Stats reports cumulative store activity. An expired read counts as both an
// eviction and a miss.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}
