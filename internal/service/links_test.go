package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

var fixedNow = time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func toolbarTree(t *testing.T, children ...models.Node) (*models.Folder, *models.Folder) {
	t.Helper()
	bar := folder(t, "Bookmarks bar", children...)
	root := folder(t, "Bookmarks", bar)
	return root, bar
}

func TestHostname(t *testing.T) {
	tests := []struct {
		link string
		host string
		ok   bool
	}{
		{link: "https://Go.Dev/doc", host: "go.dev", ok: true},
		{link: "http://example.com:8080/x", host: "example.com", ok: true},
		{link: "ftp://files.example.org/", host: "files.example.org", ok: true},
		{link: "https://bücher.example/", host: "xn--bcher-kva.example", ok: true},
		{link: "https://MÜNCHEN.de/", host: "xn--mnchen-3ya.de", ok: true},
		{link: "file:///home/user/notes.html", ok: false},
		{link: "https://192.168.0.1/admin", ok: false},
		{link: "http://[::1]:8080/", ok: false},
		{link: "/relative/path", ok: false},
		{link: "mailto:someone@example.com", ok: false},
		{link: "javascript:void(0)", ok: false},
		{link: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			host, ok := Hostname(tt.link)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.host, host)
		})
	}
}

func TestLinkValidator_ResolvesPunycodeHosts(t *testing.T) {
	live := bookmark("Bücher", "https://bücher.example/shop")
	root, bar := toolbarTree(t, live)

	r := new(mockResolver)
	r.On("Resolve", mock.Anything, "xn--bcher-kva.example").Return(true, nil).Once()

	moved, err := NewLinkValidator(r, nil, WithClock(clock)).Apply(context.Background(), root)

	require.NoError(t, err)
	r.AssertExpectations(t)
	assert.Zero(t, moved)
	assert.Same(t, bar, live.Parent())
}

func TestLinkValidator_RemembersLookupsAcrossRuns(t *testing.T) {
	r := new(mockResolver)
	r.On("Resolve", mock.Anything, "go.dev").Return(true, nil).Once()
	v := NewLinkValidator(r, nil, WithClock(clock))

	for range 2 {
		root, _ := toolbarTree(t, bookmark("Go", "https://go.dev/"))
		moved, err := v.Apply(context.Background(), root)
		require.NoError(t, err)
		assert.Zero(t, moved)
	}

	r.AssertNumberOfCalls(t, "Resolve", 1)
}

func TestLinkValidator_RelocatesDeadHosts(t *testing.T) {
	// Arrange
	alive := bookmark("Go", "https://go.dev/doc")
	dead := bookmark("Gone", "https://gone.example/page")
	deadToo := bookmark("Gone too", "https://GONE.example/other")
	local := bookmark("Notes", "file:///notes.html")
	work := folder(t, "Work", dead, local)
	root, bar := toolbarTree(t, alive, work)
	require.NoError(t, root.Append(deadToo))

	r := new(mockResolver)
	r.On("Resolve", mock.Anything, "go.dev").Return(true, nil).Once()
	r.On("Resolve", mock.Anything, "gone.example").Return(false, nil).Once()

	// Act
	moved, err := NewLinkValidator(r, nil, WithClock(clock)).Apply(context.Background(), root)

	// Assert
	require.NoError(t, err)
	r.AssertExpectations(t)
	assert.Equal(t, 2, moved)

	assert.Same(t, bar, alive.Parent())
	assert.Equal(t, []string{"Notes"}, titles(work))
	assert.Nil(t, dead.Parent())

	removed := bar.Child(DefaultRemovedFolder)
	require.NotNil(t, removed)
	assert.Equal(t, "/Bookmarks/Bookmarks bar/Removed DNS", removed.FullTitle())
	assert.Equal(t, fixedNow, removed.CreatedDate)
	assert.Equal(t, []string{
		"Gone - Originally from 2019-08-17",
		"Gone too - Originally from 2019-08-17",
	}, titles(removed))

	relocated := removed.Children()[0].(*models.Bookmark)
	assert.Equal(t, "https://gone.example/page", relocated.Link)
	assert.Equal(t, 3, relocated.Depth)
	assert.Equal(t, fixedNow, relocated.CreatedDate)
}

func TestLinkValidator_AllAliveLeavesTreeUntouched(t *testing.T) {
	b := bookmark("Go", "https://go.dev")
	root, bar := toolbarTree(t, b)

	r := new(mockResolver)
	r.On("Resolve", mock.Anything, "go.dev").Return(true, nil).Once()

	moved, err := NewLinkValidator(r, nil).Apply(context.Background(), root)

	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, []string{"Go"}, titles(bar))
	assert.Nil(t, bar.Child(DefaultRemovedFolder))
}

func TestLinkValidator_ResolverErrorIsFatal(t *testing.T) {
	dead := bookmark("Gone", "https://gone.example")
	flaky := bookmark("Flaky", "https://flaky.example")
	root, bar := toolbarTree(t, dead, flaky)

	boom := errors.New("server misbehaving")
	r := new(mockResolver)
	r.On("Resolve", mock.Anything, "gone.example").Return(false, nil).Maybe()
	r.On("Resolve", mock.Anything, "flaky.example").Return(false, boom)

	moved, err := NewLinkValidator(r, nil).Apply(context.Background(), root)

	assert.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, moved)
	assert.Equal(t, []string{"Gone", "Flaky"}, titles(bar), "no edits before all lookups finish")
}

func TestLinkValidator_ReusesExistingRemovedFolder(t *testing.T) {
	previous := folder(t, "Dead", bookmark("Old", "https://old.example"))
	dead := bookmark("Gone", "https://gone.example")
	root, bar := toolbarTree(t, previous, dead)

	r := new(mockResolver)
	r.On("Resolve", mock.Anything, "old.example").Return(true, nil)
	r.On("Resolve", mock.Anything, "gone.example").Return(false, nil)

	moved, err := NewLinkValidator(r, nil, WithRemovedFolder("Dead"), WithClock(clock)).Apply(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Equal(t, []string{"Dead"}, titles(bar))
	assert.Equal(t, []string{"Old", "Gone - Originally from 2019-08-17"}, titles(previous))
}

func TestLinkValidator_ToolbarLookup(t *testing.T) {
	t.Run("falls back to the flagged toolbar folder", func(t *testing.T) {
		dead := bookmark("Gone", "https://gone.example")
		toolbar := folder(t, "Lesezeichenleiste")
		toolbar.PersonalToolbarFolder = true
		root := folder(t, "Lesezeichen", toolbar, dead)

		r := new(mockResolver)
		r.On("Resolve", mock.Anything, "gone.example").Return(false, nil)

		moved, err := NewLinkValidator(r, nil).Apply(context.Background(), root)

		require.NoError(t, err)
		assert.Equal(t, 1, moved)
		assert.NotNil(t, toolbar.Child(DefaultRemovedFolder))
	})

	t.Run("custom path", func(t *testing.T) {
		dead := bookmark("Gone", "https://gone.example")
		other := folder(t, "Other")
		root := folder(t, "Bookmarks", other, dead)

		r := new(mockResolver)
		r.On("Resolve", mock.Anything, "gone.example").Return(false, nil)

		_, err := NewLinkValidator(r, nil, WithToolbarPath("/Bookmarks/Other")).Apply(context.Background(), root)

		require.NoError(t, err)
		assert.NotNil(t, other.Child(DefaultRemovedFolder))
	})

	t.Run("missing toolbar", func(t *testing.T) {
		dead := bookmark("Gone", "https://gone.example")
		root := folder(t, "Bookmarks", dead)

		r := new(mockResolver)
		r.On("Resolve", mock.Anything, "gone.example").Return(false, nil)

		_, err := NewLinkValidator(r, nil).Apply(context.Background(), root)

		assert.ErrorIs(t, err, ErrToolbarNotFound)
	})
}

func TestLinkValidator_NoResolvableLinks(t *testing.T) {
	root, _ := toolbarTree(t, bookmark("Notes", "file:///notes.html"))
	r := new(mockResolver)

	moved, err := NewLinkValidator(r, nil).Apply(context.Background(), root)

	require.NoError(t, err)
	assert.Zero(t, moved)
	r.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}
