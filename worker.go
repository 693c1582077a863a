package main

import "sync"

// rowBand is a half-open range of rows processed by one goroutine.
type rowBand struct {
	y0, y1 int
}

// assignRowBands splits height rows into at most workerCount contiguous bands.
func assignRowBands(workerCount, height int) []rowBand {
	if workerCount < 1 {
		workerCount = 1
	}
	if height <= 0 {
		return nil
	}
	rowsPer := (height + workerCount - 1) / workerCount
	bands := make([]rowBand, 0, workerCount)
	for y := 0; y < height; y += rowsPer {
		end := y + rowsPer
		if end > height {
			end = height
		}
		bands = append(bands, rowBand{y0: y, y1: end})
	}
	return bands
}

// runBands invokes fn for every band concurrently and waits for all of them.
func runBands(bands []rowBand, fn func(rowBand)) {
	if len(bands) == 1 {
		fn(bands[0])
		return
	}
	var wg sync.WaitGroup
	for _, b := range bands {
		wg.Add(1)
		go func(b rowBand) {
			defer wg.Done()
			fn(b)
		}(b)
	}
	wg.Wait()
}
