// Package payload extracts and navigates the JSON state blocks that the
// server embeds into rendered page markup.
package payload

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"threadscraper/pkg/logger"
)

const (
	// scriptSelector matches the framework's server-injected state blocks.
	scriptSelector = `script[type="application/json"][data-sjs]`

	// serverJSMarker identifies scheduled server-rendered state.
	serverJSMarker = `"ScheduledServerJS"`

	// threadItemsMarker identifies blocks that carry post content.
	threadItemsMarker = "thread_items"
)

// Locate scans rendered markup for embedded JSON blocks carrying thread
// content and parses each into a generic tree. Blocks that fail to parse are
// logged and skipped; they never fail the run.
func Locate(html string, log logger.Logger) []interface{} {
	if log == nil {
		log = logger.GetLogger()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.WithError(err).Warn("failed to parse page markup")
		return nil
	}

	var payloads []interface{}
	doc.Find(scriptSelector).Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.Contains(text, serverJSMarker) || !strings.Contains(text, threadItemsMarker) {
			return
		}

		var tree interface{}
		if err := json.Unmarshal([]byte(text), &tree); err != nil {
			log.WarnWithFields("skipping unparseable payload block", map[string]interface{}{
				"error":      err.Error(),
				"block_size": len(text),
			})
			return
		}
		payloads = append(payloads, tree)
	})

	return payloads
}
