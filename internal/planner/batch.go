package planner

// BatchSizes splits n remaining day photos into page-sized batches. The rules
// borrow photos from the tail so the book never ends a day on a sparse one or
// two photo page when a fuller split exists.
//
// For the common capacity of 4:
//   - n == 6 fills one 6-photo page.
//   - multiples of 4 fill 4-photo pages throughout.
//   - n % 4 == 2, n >= 10: 4-photo pages, then a 6 and a 4.
//   - n % 4 == 1, n >= 13: 4-photo pages, then a 4, a 6 and a 3.
//   - everything else batches greedily with a final-page rebalance.
//
// Other capacities batch greedily with the same rebalance.
func BatchSizes(n, capacity int) []int {
	if n <= 0 {
		return nil
	}
	if capacity < 3 {
		capacity = 4
	}
	if capacity != 4 {
		return greedyBatches(n, capacity)
	}

	switch {
	case n == 6:
		return []int{6}
	case n%4 == 0:
		return fourBatches(n)
	case n%4 == 2 && n >= 10:
		return append(fourBatches(n-10), 6, 4)
	case n%4 == 1 && n >= 13:
		return append(fourBatches(n-13), 4, 6, 3)
	default:
		return greedyBatches(n, 4)
	}
}

func fourBatches(n int) []int {
	batches := make([]int, 0, n/4)
	for i := 0; i < n/4; i++ {
		batches = append(batches, 4)
	}
	return batches
}

// greedyBatches fills full pages left to right, then moves photos off earlier
// pages until the tail stops being a 1-2 photo page or no donor can spare one
// without dropping below 3 itself.
func greedyBatches(n, capacity int) []int {
	var batches []int
	for n > 0 {
		take := capacity
		if n < take {
			take = n
		}
		batches = append(batches, take)
		n -= take
	}
	last := len(batches) - 1
	for batches[last] < 3 {
		donor := -1
		for i := last - 1; i >= 0; i-- {
			if batches[i] > 3 {
				donor = i
				break
			}
		}
		if donor < 0 {
			break
		}
		batches[donor]--
		batches[last]++
	}
	return batches
}

// SplitBatches applies BatchSizes to an id list.
func SplitBatches(ids []string, capacity int) [][]string {
	sizes := BatchSizes(len(ids), capacity)
	pages := make([][]string, 0, len(sizes))
	offset := 0
	for _, size := range sizes {
		pages = append(pages, ids[offset:offset+size])
		offset += size
	}
	return pages
}

// gridLayout names the renderer arrangement for a page of count photos.
func gridLayout(count int) string {
	switch {
	case count == 1:
		return "single"
	case count == 2:
		return "two_column"
	case count <= 4:
		return "grid_2x2"
	case count <= 6:
		return "grid_2x3"
	default:
		return "grid_3x3"
	}
}
