// Package threads normalizes raw Threads post records into stable documents.
package threads

// Post is a normalized top-level post. Images and Videos stay nil when no
// media was found, so "no media" serializes as null rather than an empty
// list. ThreadItems is attached once by the orchestrator after the reply
// thread has been fetched.
type Post struct {
	Username           string       `json:"username"`
	Code               string       `json:"code"`
	URL                string       `json:"url,omitempty"`
	Images             []string     `json:"images"`
	Videos             []string     `json:"videos"`
	Datetime           string       `json:"datetime,omitempty"`
	Content            string       `json:"content"`
	Likes              int64        `json:"likes"`
	DirectRepliesCount int64        `json:"direct_replies_count"`
	ThreadItems        []ReplyGroup `json:"thread_items"`
}

// HasContent reports whether the post carries text or at least one image.
// Posts without either are dropped from the final document.
func (p *Post) HasContent() bool {
	return p.Content != "" || len(p.Images) > 0
}

// Reply is a normalized reply. It carries the parent post's content and
// datetime by value so each reply is self-describing.
type Reply struct {
	Username     string   `json:"username"`
	Datetime     string   `json:"datetime,omitempty"`
	Content      string   `json:"content"`
	Images       []string `json:"images"`
	Videos       []string `json:"videos"`
	PostContent  string   `json:"post_content"`
	PostDatetime string   `json:"post_datetime,omitempty"`
}

// HasContent reports whether the reply carries text or at least one image
func (r *Reply) HasContent() bool {
	return r.Content != "" || len(r.Images) > 0
}

// ParentPost is the originating post's content and time, embedded into each
// of its replies.
type ParentPost struct {
	Content  string
	Datetime string
}

// ReplyGroup is one reply subtree found on a post's permalink page
type ReplyGroup struct {
	Replies []Reply `json:"replies"`
}

// ResultDocument is the full persisted result for one run
type ResultDocument struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
}

// SummaryPost is the reduced projection of a post returned to the caller
type SummaryPost struct {
	Datetime           string       `json:"datetime,omitempty"`
	Content            string       `json:"content"`
	Images             []string     `json:"images"`
	DirectRepliesCount int64        `json:"direct_replies_count"`
	Threads            []ReplyGroup `json:"threads"`
}

// SummaryDocument is the reduced projection of a full result
type SummaryDocument struct {
	Posts []SummaryPost `json:"posts"`
}

// ErrorDocument is returned in place of a summary when the run fails
type ErrorDocument struct {
	Error string `json:"error"`
}

// Summarize builds the reduced projection of a sorted post list
func Summarize(posts []Post) SummaryDocument {
	summary := SummaryDocument{Posts: make([]SummaryPost, 0, len(posts))}
	for _, p := range posts {
		summary.Posts = append(summary.Posts, SummaryPost{
			Datetime:           p.Datetime,
			Content:            p.Content,
			Images:             p.Images,
			DirectRepliesCount: p.DirectRepliesCount,
			Threads:            p.ThreadItems,
		})
	}
	return summary
}
