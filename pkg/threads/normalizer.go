package threads

import (
	"fmt"
	"time"

	"threadscraper/pkg/payload"
)

// permalinkFormat is the canonical post URL, derived from author and code
const permalinkFormat = "https://www.threads.net/@%s/post/%s"

// isoLayout renders UTC timestamps with an explicit +00:00 offset
const isoLayout = "2006-01-02T15:04:05-07:00"

// ParsePost normalizes one raw thread-item record into a top-level Post.
// Returns nil when the record is not authored by the target user. Missing
// fields fall back to type-appropriate defaults; the caller applies the
// content-or-images retention filter.
func ParsePost(record interface{}, target string) *Post {
	username, _ := payload.StringAt(record, "post", "user", "username")
	if username != target {
		return nil
	}

	code, _ := payload.StringAt(record, "post", "code")
	content, _ := payload.StringAt(record, "post", "caption", "text")
	likes, _ := payload.IntAt(record, "post", "like_count")
	replyCount, _ := payload.IntAt(record, "post", "text_post_app_info", "direct_reply_count")
	images, videos := resolveMedia(record)

	post := &Post{
		Username:           username,
		Code:               code,
		Images:             images,
		Videos:             videos,
		Datetime:           formatTakenAt(record),
		Content:            content,
		Likes:              likes,
		DirectRepliesCount: replyCount,
		ThreadItems:        []ReplyGroup{},
	}
	if username != "" && code != "" {
		post.URL = fmt.Sprintf(permalinkFormat, username, code)
	}
	return post
}

// ParseReply normalizes one raw thread-item record into a Reply, embedding
// the parent post's content and datetime. Returns nil when the record neither
// targets the given user as reply recipient nor is authored by them.
func ParseReply(record interface{}, target string, parent ParentPost) *Reply {
	username, _ := payload.StringAt(record, "post", "user", "username")
	replyTo, _ := payload.StringAt(record, "post", "text_post_app_info", "reply_to_author", "username")
	if username != target && replyTo != target {
		return nil
	}

	content, _ := payload.StringAt(record, "post", "caption", "text")
	images, videos := resolveMedia(record)

	return &Reply{
		Username:     username,
		Datetime:     formatTakenAt(record),
		Content:      content,
		Images:       images,
		Videos:       videos,
		PostContent:  parent.Content,
		PostDatetime: parent.Datetime,
	}
}

// RecordCode returns the unique code of a raw thread-item record, used to
// exclude a post's own record from its reply thread.
func RecordCode(record interface{}) string {
	code, _ := payload.StringAt(record, "post", "code")
	return code
}

// formatTakenAt converts the record's epoch timestamp (integer seconds, UTC)
// to ISO-8601; a missing timestamp yields the empty string.
func formatTakenAt(record interface{}) string {
	ts, ok := payload.IntAt(record, "post", "taken_at")
	if !ok {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(isoLayout)
}
