package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// folder builds a folder holding children, appended in order
func folder(t *testing.T, title string, children ...models.Node) *models.Folder {
	t.Helper()
	f := &models.Folder{Entry: models.Entry{Title: title}}
	for _, c := range children {
		require.NoError(t, f.Append(c))
	}
	return f
}

func bookmark(title, link string) *models.Bookmark {
	return &models.Bookmark{
		Entry: models.Entry{Title: title, CreatedDate: time.Date(2019, 8, 17, 10, 0, 0, 0, time.UTC)},
		Link:  link,
	}
}

// titles returns the titles of the folder's direct children
func titles(f *models.Folder) []string {
	var out []string
	for _, c := range f.Children() {
		out = append(out, c.Info().Title)
	}
	return out
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, host string) (bool, error) {
	args := m.Called(ctx, host)
	return args.Bool(0), args.Error(1)
}
