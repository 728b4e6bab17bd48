package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

func previewTree(t *testing.T) (*models.Folder, *models.Bookmark) {
	t.Helper()
	root := models.NewRoot("Bookmarks")
	bar := &models.Folder{Entry: models.Entry{Title: "Bookmarks bar"}, PersonalToolbarFolder: true}
	link := &models.Bookmark{
		Entry: models.Entry{Title: "Q&amp;A [forum]", CreatedDate: time.Date(2019, 8, 17, 10, 0, 0, 0, time.UTC)},
		Link:  "https://qa.example/",
	}
	require.NoError(t, root.Append(bar))
	require.NoError(t, bar.Append(link))
	require.NoError(t, root.Append(&models.Bookmark{Entry: models.Entry{Title: "Go"}, Link: "https://go.dev/"}))
	return root, link
}

func TestBuildTree(t *testing.T) {
	root, link := previewTree(t)

	node := buildTree(root)

	assert.Equal(t, "Bookmarks/", node.GetText())
	assert.Same(t, root, node.GetReference())
	require.Len(t, node.GetChildren(), 2)

	bar := node.GetChildren()[0]
	assert.Equal(t, "Bookmarks bar/", bar.GetText())
	require.Len(t, bar.GetChildren(), 1)

	leaf := bar.GetChildren()[0]
	assert.Same(t, link, leaf.GetReference())
	assert.Equal(t, "Q&A [forum[]", leaf.GetText())
	assert.Empty(t, leaf.GetChildren())

	assert.Equal(t, "Go", node.GetChildren()[1].GetText())
}

func TestDetailText(t *testing.T) {
	root, link := previewTree(t)

	folder := detailText(root.Child("Bookmarks bar"))
	assert.True(t, strings.Contains(folder, "/Bookmarks/Bookmarks bar"))
	assert.True(t, strings.HasPrefix(folder, "[::b]Type:[::-]\nFolder\n"))

	bookmark := detailText(link)
	assert.True(t, strings.HasPrefix(bookmark, "[::b]Type:[::-]\nBookmark\n"))
	assert.Contains(t, bookmark, "https://qa.example/")
	assert.Contains(t, bookmark, "2019-08-17 10:00")
	assert.Contains(t, bookmark, "/Bookmarks/Bookmarks bar")

	assert.Empty(t, detailText(nil))
}
