package threads

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, raw string) interface{} {
	t.Helper()
	var tree interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &tree))
	return tree
}

func TestParsePost(t *testing.T) {
	raw := `{
		"post": {
			"user": {"username": "alice"},
			"code": "Cx9",
			"caption": {"text": "hello world"},
			"taken_at": 1700000000,
			"like_count": 12,
			"text_post_app_info": {"direct_reply_count": 4}
		}
	}`

	post := ParsePost(record(t, raw), "alice")
	require.NotNil(t, post)

	assert.Equal(t, "alice", post.Username)
	assert.Equal(t, "Cx9", post.Code)
	assert.Equal(t, "https://www.threads.net/@alice/post/Cx9", post.URL)
	assert.Equal(t, "hello world", post.Content)
	assert.Equal(t, "2023-11-14T22:13:20+00:00", post.Datetime)
	assert.Equal(t, int64(12), post.Likes)
	assert.Equal(t, int64(4), post.DirectRepliesCount)
	assert.NotNil(t, post.ThreadItems)
	assert.Empty(t, post.ThreadItems)
}

func TestParsePostRejectsOtherAuthors(t *testing.T) {
	raw := `{"post": {"user": {"username": "bob"}, "code": "C1", "caption": {"text": "hi"}}}`

	assert.Nil(t, ParsePost(record(t, raw), "alice"))
}

func TestParsePostRejectsRecordsWithoutAuthor(t *testing.T) {
	assert.Nil(t, ParsePost(record(t, `{"post": {"code": "C1"}}`), "alice"))
	assert.Nil(t, ParsePost(record(t, `{"other": true}`), "alice"))
	assert.Nil(t, ParsePost("not a map", "alice"))
}

func TestParsePostMissingFieldDefaults(t *testing.T) {
	raw := `{"post": {"user": {"username": "alice"}}}`

	post := ParsePost(record(t, raw), "alice")
	require.NotNil(t, post)

	assert.Empty(t, post.Code)
	assert.Empty(t, post.URL, "no permalink without a code")
	assert.Empty(t, post.Content)
	assert.Empty(t, post.Datetime)
	assert.Zero(t, post.Likes)
	assert.Zero(t, post.DirectRepliesCount)
	assert.Nil(t, post.Images)
	assert.Nil(t, post.Videos)
	assert.False(t, post.HasContent())
}

func TestParseReplyMembership(t *testing.T) {
	tests := []struct {
		name     string
		author   string
		replyTo  string
		retained bool
	}{
		{"authored by target", "alice", "bob", true},
		{"directed at target", "bob", "alice", true},
		{"both are target", "alice", "alice", true},
		{"unrelated record", "bob", "carol", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{
				"post": {
					"user": {"username": "` + tt.author + `"},
					"caption": {"text": "a reply"},
					"text_post_app_info": {"reply_to_author": {"username": "` + tt.replyTo + `"}}
				}
			}`

			reply := ParseReply(record(t, raw), "alice", ParentPost{})
			if !tt.retained {
				assert.Nil(t, reply)
				return
			}
			require.NotNil(t, reply)
			assert.Equal(t, tt.author, reply.Username)
			assert.Equal(t, "a reply", reply.Content)
		})
	}
}

func TestParseReplyEmbedsParent(t *testing.T) {
	raw := `{
		"post": {
			"user": {"username": "bob"},
			"caption": {"text": "nice post"},
			"taken_at": 1700000100,
			"text_post_app_info": {"reply_to_author": {"username": "alice"}}
		}
	}`
	parent := ParentPost{Content: "original text", Datetime: "2023-11-14T22:13:20+00:00"}

	reply := ParseReply(record(t, raw), "alice", parent)
	require.NotNil(t, reply)

	assert.Equal(t, "2023-11-14T22:15:00+00:00", reply.Datetime)
	assert.Equal(t, "original text", reply.PostContent)
	assert.Equal(t, parent.Datetime, reply.PostDatetime)
}

func TestRecordCode(t *testing.T) {
	assert.Equal(t, "Cx9", RecordCode(record(t, `{"post": {"code": "Cx9"}}`)))
	assert.Empty(t, RecordCode(record(t, `{"post": {}}`)))
	assert.Empty(t, RecordCode(nil))
}
