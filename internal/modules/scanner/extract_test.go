package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedSnapshot = `<html><body>
<div class="feed-shared-update-v2" data-urn="urn:li:activity:7001">
  <div class="feed-shared-update-v2__description">
    <span>Had coffee with my old coworker yesterday, gotta say it was awesome catching up!</span>
  </div>
</div>
<div class="comments-comment-item" data-id="c-9">
  <p class="comments-comment-item__text">Thanks for sharing, great read.</p>
</div>
<div class="comments-comment-item">
  <p>ok</p>
</div>
</body></html>`

func TestExtractUnits(t *testing.T) {
	units, err := ExtractUnits(strings.NewReader(feedSnapshot))
	require.NoError(t, err)
	require.Len(t, units, 3)

	post := units[0]
	assert.Equal(t, "urn:li:activity:7001", post.ID)
	// the description and the span nested in it both contribute
	assert.True(t, strings.HasPrefix(post.Text, "Had coffee with my old coworker yesterday"))
	assert.Equal(t, 2, strings.Count(post.Text, "Had coffee"))

	comment := units[1]
	assert.Equal(t, "c-9", comment.ID)
	assert.Equal(t, "Thanks for sharing, great read. Thanks for sharing, great read.", comment.Text)

	assert.Equal(t, ".comments-comment-item#"+contentID(".comments-comment-item", "ok"), units[2].ID)
	assert.Equal(t, "ok", units[2].Text)
}

func TestFallbackIDFollowsContent(t *testing.T) {
	extract := func(body string) string {
		units, err := ExtractUnits(strings.NewReader(`<div class="feed-shared-update-v2"><p>` + body + `</p></div>`))
		require.NoError(t, err)
		require.Len(t, units, 1)
		return units[0].ID
	}

	first := extract("Had coffee with my old coworker yesterday")
	assert.True(t, strings.HasPrefix(first, ".feed-shared-update-v2#"))
	assert.Equal(t, first, extract("Had coffee with my old coworker yesterday"))
	assert.NotEqual(t, first, extract("Excited to share that I started a new role"))
}

func TestExtractTextWithoutMatches(t *testing.T) {
	units, err := ExtractUnits(strings.NewReader(`<div class="feed-shared-text">bare text only</div>`))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Empty(t, units[0].Text)
}

func TestExtractNodeMatchedTwiceYieldsOneUnit(t *testing.T) {
	html := `<div class="feed-shared-update-v2" data-urn="urn:li:activity:1"><p>hello there</p></div>`
	units, err := ExtractUnits(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "urn:li:activity:1", units[0].ID)
}
