package threads

import (
	"math"
	"sort"

	"threadscraper/pkg/payload"
)

// resolveMedia picks one representative image and the best video URL per
// media item. A media item contributes to either images or videos, never
// both: any video variant suppresses image extraction for that item. Both
// results stay nil when nothing was found.
func resolveMedia(record interface{}) (images, videos []string) {
	if carousel, ok := payload.SliceAt(record, "post", "carousel_media"); ok && len(carousel) > 0 {
		for _, item := range carousel {
			if url, ok := bestVideoURL(item); ok {
				videos = append(videos, url)
				continue
			}
			if url, ok := representativeImageURL(item); ok {
				images = append(images, url)
			}
		}
		return images, dedupe(videos)
	}

	post, ok := payload.MapAt(record, "post")
	if !ok {
		return nil, nil
	}
	if url, ok := bestVideoURL(post); ok {
		return nil, []string{url}
	}
	if url, ok := representativeImageURL(post); ok {
		return []string{url}, nil
	}
	return nil, nil
}

// bestVideoURL sorts video variants by their numeric type ascending (a
// missing type sorts last) and returns the first variant's URL.
func bestVideoURL(item interface{}) (string, bool) {
	variants, ok := payload.SliceAt(item, "video_versions")
	if !ok || len(variants) == 0 {
		return "", false
	}

	sorted := make([]interface{}, len(variants))
	copy(sorted, variants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return variantType(sorted[i]) < variantType(sorted[j])
	})

	return payload.StringAt(sorted[0], "url")
}

func variantType(variant interface{}) int64 {
	t, ok := payload.IntAt(variant, "type")
	if !ok {
		return math.MaxInt64
	}
	return t
}

// representativeImageURL picks the second image candidate when at least two
// exist, else the first. The second candidate is a mid-resolution variant,
// trading fidelity for smaller payloads.
func representativeImageURL(item interface{}) (string, bool) {
	candidates, ok := payload.SliceAt(item, "image_versions2", "candidates")
	if !ok || len(candidates) == 0 {
		return "", false
	}
	if len(candidates) > 1 {
		return payload.StringAt(candidates[1], "url")
	}
	return payload.StringAt(candidates[0], "url")
}

// dedupe drops repeated URLs, keeping first-seen order
func dedupe(urls []string) []string {
	if len(urls) < 2 {
		return urls
	}
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
