package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"catalogsync/internal/feed"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
)

var feedStyles = []mapper.Style{mapper.StyleStandard, mapper.StyleChristmas}

type CatalogHandler struct {
	generator *feed.Generator
	publicDir string
	logger    *logger.Logger
}

func NewCatalogHandler(g *feed.Generator, publicDir string, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{generator: g, publicDir: publicDir, logger: log}
}

// Generate runs component H for both styles, writing one CSV per style
// under publicDir. refresh=true re-fetches from the source store first
// (feed.Generator.Refresh); refresh=false reads only from the cache
// (feed.Generator.Fast). The two styles run in parallel since neither
// depends on the other's output.
func (h *CatalogHandler) Generate(c *gin.Context) {
	refresh := c.Query("refresh") == "true"
	started := time.Now()

	if err := os.MkdirAll(h.publicDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	paths := make([]string, len(feedStyles))
	errs := make([]error, len(feedStyles))

	var wg sync.WaitGroup
	for i, style := range feedStyles {
		wg.Add(1)
		go func(i int, style mapper.Style) {
			defer wg.Done()
			var items []mapper.Item
			var err error
			if refresh {
				items, err = h.generator.Refresh(style)
			} else {
				items, err = h.generator.Fast(style)
			}
			if err != nil {
				errs[i] = err
				return
			}

			path := filepath.Join(h.publicDir, fmt.Sprintf("catalog-%s.csv", style))
			f, err := os.Create(path)
			if err != nil {
				errs[i] = err
				return
			}
			defer f.Close()

			if err := feed.WriteCSV(f, items); err != nil {
				errs[i] = err
				return
			}
			paths[i] = path
		}(i, style)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			h.logger.Error("catalog generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"paths":       paths,
		"duration_ms": time.Since(started).Milliseconds(),
	})
}

// Stream serves the most recently generated CSV for the requested style
// inline. It does not regenerate — Generate must have run at least once.
func (h *CatalogHandler) Stream(c *gin.Context) {
	style := mapper.Style(c.DefaultQuery("style", string(mapper.StyleStandard)))
	path := filepath.Join(h.publicDir, fmt.Sprintf("catalog-%s.csv", style))

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog not generated yet for this style"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.File(path)
}
