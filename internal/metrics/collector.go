package metrics

import (
	"time"

	"photo-manager/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current library statistics
type Stats struct {
	ActiveImages   int
	RecycledImages int
	TotalAlbums    int
	TotalTags      int
	TotalUsers     int
	TotalBytes     int64
	ActiveSessions int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	LibraryImagesTotal.WithLabelValues("active").Set(float64(stats.ActiveImages))
	LibraryImagesTotal.WithLabelValues("recycled").Set(float64(stats.RecycledImages))
	LibraryAlbumsTotal.Set(float64(stats.TotalAlbums))
	LibraryTagsTotal.Set(float64(stats.TotalTags))
	LibraryUsersTotal.Set(float64(stats.TotalUsers))
	LibraryBytesTotal.Set(float64(stats.TotalBytes))
	ActiveSessions.Set(float64(stats.ActiveSessions))

	logging.Debug("Metrics collected: images=%d, recycled=%d, albums=%d, tags=%d",
		stats.ActiveImages, stats.RecycledImages, stats.TotalAlbums, stats.TotalTags)
}
