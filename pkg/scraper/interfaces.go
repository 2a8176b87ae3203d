package scraper

// PageFetcher is the rendering capability the pipeline consumes: fetch a URL
// through a browser and return the rendered markup once the page is ready.
type PageFetcher interface {
	FetchHTML(url string) (string, error)
}
