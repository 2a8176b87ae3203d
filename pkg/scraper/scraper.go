// Package scraper drives the collection pipeline: profile page → embedded
// payloads → raw post records → normalized posts with reply threads →
// persisted result documents.
package scraper

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sort"
	"sync"

	"threadscraper/internal/downloader"
	"threadscraper/pkg/config"
	errs "threadscraper/pkg/errors"
	"threadscraper/pkg/logger"
	"threadscraper/pkg/payload"
	"threadscraper/pkg/storage"
	"threadscraper/pkg/threads"
)

// threadItemsKey is the collection key post records live under, at varying
// depths depending on post type.
const threadItemsKey = "thread_items"

// Scraper orchestrates the collection run for one target user. The fetcher
// wraps a single browser session owned by the caller; fetches are strictly
// sequential.
type Scraper struct {
	fetcher PageFetcher
	storage *storage.Manager
	config  *config.Config
	logger  logger.Logger
}

// New creates a Scraper around an existing page fetcher and storage manager
func New(fetcher PageFetcher, store *storage.Manager, cfg *config.Config) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		storage: store,
		config:  cfg,
		logger:  logger.GetLogger(),
	}
}

// ScrapeUser collects the target user's posts and reply threads and returns
// the summary document as a JSON string. Only a profile-page fetch failure is
// fatal; it yields an error document alongside the error. Per-item failures
// degrade to empty results.
func (s *Scraper) ScrapeUser(username string) (string, error) {
	profileURL := fmt.Sprintf("%s/@%s", s.config.Scraper.BaseURL, username)

	s.logger.InfoWithFields("fetching profile page", map[string]interface{}{
		"username": username,
		"url":      profileURL,
	})

	html, err := s.fetcher.FetchHTML(profileURL)
	if err != nil {
		fatal := errs.Wrap(errs.ErrorTypeFatalFetch, "profile page unreachable", err)
		s.logger.WithError(fatal).WithField("username", username).Error("collection aborted")
		doc, _ := json.Marshal(threads.ErrorDocument{Error: fatal.Error()})
		return string(doc), fatal
	}

	payloads := payload.Locate(html, s.logger)
	s.logger.InfoWithFields("located embedded payloads", map[string]interface{}{
		"username": username,
		"count":    len(payloads),
	})

	rawDump := payloads
	if rawDump == nil {
		rawDump = []interface{}{}
	}
	if err := s.storage.SaveJSON(username+"_raw_data.json", rawDump); err != nil {
		s.logger.WithError(err).Error("failed to save raw payload dump")
	}

	posts := s.collectPosts(payloads, username)
	sortPostsByDatetime(posts)

	result := threads.ResultDocument{Posts: posts, Total: len(posts)}
	if result.Posts == nil {
		result.Posts = []threads.Post{}
	}
	if err := s.storage.SaveJSON(username+"_result.json", result); err != nil {
		s.logger.WithError(err).Error("failed to save result document")
	}

	if s.config.Download.Enabled {
		s.downloadMedia(username, posts)
	}

	s.logger.InfoWithFields("collection completed", map[string]interface{}{
		"username": username,
		"total":    len(posts),
	})

	summary, err := json.Marshal(threads.Summarize(posts))
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}
	return string(summary), nil
}

// collectPosts normalizes every thread-item record belonging to the target
// user and attaches each retained post's reply thread.
func (s *Scraper) collectPosts(payloads []interface{}, username string) []threads.Post {
	var posts []threads.Post
	for _, tree := range payloads {
		for _, group := range payload.NestedLookup(threadItemsKey, tree) {
			records, ok := group.([]interface{})
			if !ok {
				continue
			}
			for _, record := range records {
				post := threads.ParsePost(record, username)
				if post == nil || !post.HasContent() {
					continue
				}
				if post.URL != "" {
					post.ThreadItems = s.fetchThreadReplies(post.URL, post.Code, username, threads.ParentPost{
						Content:  post.Content,
						Datetime: post.Datetime,
					})
				}
				posts = append(posts, *post)
			}
		}
	}
	return posts
}

// fetchThreadReplies loads a post's permalink page and normalizes its reply
// records, excluding the original post which the page re-embeds alongside its
// replies. Duplicate groups across payload blocks are kept as found. Any
// failure is logged and yields an empty list; it never aborts the run.
func (s *Scraper) fetchThreadReplies(postURL, originalCode, username string, parent threads.ParentPost) []threads.ReplyGroup {
	html, err := s.fetcher.FetchHTML(postURL)
	if err != nil {
		s.logger.WithError(errs.Wrap(errs.ErrorTypeReplyFetch, "thread page fetch failed", err)).
			WithField("url", postURL).Error("skipping reply thread")
		return []threads.ReplyGroup{}
	}

	groups := []threads.ReplyGroup{}
	for _, tree := range payload.Locate(html, s.logger) {
		for _, found := range payload.NestedLookup(threadItemsKey, tree) {
			records, ok := found.([]interface{})
			if !ok {
				continue
			}
			var replies []threads.Reply
			for _, record := range records {
				if threads.RecordCode(record) == originalCode {
					continue
				}
				reply := threads.ParseReply(record, username, parent)
				if reply == nil || !reply.HasContent() {
					continue
				}
				replies = append(replies, *reply)
			}
			if len(replies) > 0 {
				groups = append(groups, threads.ReplyGroup{Replies: replies})
			}
		}
	}
	return groups
}

// downloadMedia fetches every resolved media URL through the worker pool.
// Failures are logged per item and never affect the result document.
func (s *Scraper) downloadMedia(username string, posts []threads.Post) {
	client := downloader.NewClient(s.config.Download.DownloadTimeout, s.config.Download.MaxRetries, s.logger)
	pool := downloader.NewWorkerPool(s.config.Download.ConcurrentDownloads, client, s.storage, s.logger)
	pool.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			if result.Success {
				s.logger.DebugWithFields("media saved", map[string]interface{}{
					"filename": result.Job.Filename,
					"size":     result.Size,
				})
				continue
			}
			s.logger.WithError(result.Error).WithField("url", result.Job.URL).Error("media download failed")
		}
	}()

	queued := 0
	for _, post := range posts {
		for i, u := range post.Images {
			if s.submitMedia(pool, username, u, mediaFilename(post.Code, i, u, ".jpg")) {
				queued++
			}
		}
		for i, u := range post.Videos {
			if s.submitMedia(pool, username, u, mediaFilename(post.Code, i, u, ".mp4")) {
				queued++
			}
		}
	}

	s.logger.InfoWithFields("media downloads queued", map[string]interface{}{
		"username": username,
		"queued":   queued,
	})

	pool.Stop()
	wg.Wait()
}

func (s *Scraper) submitMedia(pool *downloader.WorkerPool, username, mediaURL, filename string) bool {
	err := pool.Submit(downloader.DownloadJob{
		URL:      mediaURL,
		Filename: filename,
		Username: username,
	})
	if err != nil {
		s.logger.WithError(err).WithField("url", mediaURL).Error("failed to queue media download")
		return false
	}
	return true
}

// mediaFilename builds a stable on-disk name from the post code, media index
// and the URL's extension.
func mediaFilename(code string, index int, rawURL, fallbackExt string) string {
	ext := fallbackExt
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	return fmt.Sprintf("%s_%d%s", code, index, ext)
}

// sortPostsByDatetime sorts descending by datetime. Posts without a datetime
// are treated as earliest and land at the end; ties keep insertion order.
func sortPostsByDatetime(posts []threads.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		di, dj := posts[i].Datetime, posts[j].Datetime
		if (di == "") != (dj == "") {
			return dj == ""
		}
		return di > dj
	})
}
