package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/sync/errgroup"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
	"github.com/dastanaron/bookmarks-organiser/internal/resolver"
)

const (
	// DefaultToolbarPath is the full title of the bookmark bar in Chrome exports
	DefaultToolbarPath = "/Bookmarks/Bookmarks bar"
	// DefaultRemovedFolder receives bookmarks whose host no longer resolves
	DefaultRemovedFolder = "Removed DNS"
)

var (
	ErrToolbarNotFound = errors.New("toolbar folder not found")
	ErrResolve         = errors.New("cannot resolve host")
)

// LinkValidator moves bookmarks whose host no longer exists into a
// dedicated folder under the toolbar folder. Every distinct host is resolved
// once, all hosts concurrently, and lookups are remembered across runs of
// the same validator. The tree is only changed after every lookup has
// finished.
type LinkValidator struct {
	memo          *resolver.Memo
	log           *logger.Logger
	toolbarPath   string
	removedFolder string
	now           func() time.Time
}

// LinkValidatorOption configures a LinkValidator
type LinkValidatorOption func(*LinkValidator)

// WithToolbarPath sets the full title of the folder receiving the removed folder
func WithToolbarPath(path string) LinkValidatorOption {
	return func(v *LinkValidator) {
		if path != "" {
			v.toolbarPath = path
		}
	}
}

// WithRemovedFolder sets the title of the folder collecting dead bookmarks
func WithRemovedFolder(title string) LinkValidatorOption {
	return func(v *LinkValidator) {
		if title != "" {
			v.removedFolder = title
		}
	}
}

// WithClock sets the time source used for the dates of relocated entries
func WithClock(now func() time.Time) LinkValidatorOption {
	return func(v *LinkValidator) { v.now = now }
}

// NewLinkValidator creates a LinkValidator resolving hosts with r
func NewLinkValidator(r resolver.Resolver, log *logger.Logger, opts ...LinkValidatorOption) *LinkValidator {
	v := &LinkValidator{
		memo:          resolver.NewMemo(r),
		log:           orNop(log),
		toolbarPath:   DefaultToolbarPath,
		removedFolder: DefaultRemovedFolder,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Name implements Pass
func (v *LinkValidator) Name() string { return "validate-links" }

// Apply implements Pass. It returns the number of relocated bookmarks.
func (v *LinkValidator) Apply(ctx context.Context, root *models.Folder) (int, error) {
	type target struct {
		bookmark *models.Bookmark
		host     string
	}

	var targets []target
	hosts := make(map[string]struct{})
	for _, b := range models.Bookmarks(root) {
		host, ok := Hostname(b.Link)
		if !ok {
			continue
		}
		targets = append(targets, target{bookmark: b, host: host})
		hosts[host] = struct{}{}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	valid, err := v.resolveAll(ctx, hosts)
	if err != nil {
		return 0, err
	}

	var removedFolder *models.Folder
	moved := 0
	for _, t := range targets {
		if valid[t.host] {
			continue
		}
		if removedFolder == nil {
			if removedFolder, err = v.removedFolderIn(root); err != nil {
				return moved, err
			}
		}

		b := t.bookmark
		v.log.Info().Str("bookmark", models.Path(b)).Str("host", t.host).Msg("moving bookmark as its host cannot be resolved")
		models.Detach(b)
		relocated := &models.Bookmark{
			Entry: models.Entry{
				Title:       fmt.Sprintf("%s - Originally from %s", b.Title, b.CreatedDate.Format(time.DateOnly)),
				CreatedDate: v.now().UTC().Truncate(time.Second),
			},
			Icon: b.Icon,
			Link: b.Link,
		}
		if err := removedFolder.Append(relocated); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// resolveAll looks every host up concurrently and waits for all of them.
func (v *LinkValidator) resolveAll(ctx context.Context, hosts map[string]struct{}) (map[string]bool, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	valid := make(map[string]bool, len(hosts))
	for host := range hosts {
		g.Go(func() error {
			found, err := v.memo.Resolve(gctx, host)
			if err != nil {
				return fmt.Errorf("%w %q: %w", ErrResolve, host, err)
			}
			mu.Lock()
			valid[host] = found
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v.log.Debug().Int("hosts", len(hosts)).Msg("hosts resolved")
	return valid, nil
}

// removedFolderIn finds or creates the folder for dead bookmarks under the
// toolbar folder.
func (v *LinkValidator) removedFolderIn(root *models.Folder) (*models.Folder, error) {
	var toolbar, flagged *models.Folder
	for _, f := range models.Folders(root) {
		if toolbar == nil && f.FullTitle() == v.toolbarPath {
			toolbar = f
		}
		if flagged == nil && f.PersonalToolbarFolder {
			flagged = f
		}
	}
	if toolbar == nil {
		toolbar = flagged
	}
	if toolbar == nil {
		return nil, fmt.Errorf("%w: %q", ErrToolbarNotFound, v.toolbarPath)
	}

	if existing := toolbar.Child(v.removedFolder); existing != nil {
		return existing, nil
	}

	now := v.now().UTC().Truncate(time.Second)
	folder := &models.Folder{
		Entry:            models.Entry{Title: v.removedFolder, CreatedDate: now},
		LastModifiedDate: now,
	}
	if err := toolbar.Append(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Hostname returns the lower-cased ASCII (punycode) host of an absolute,
// non-file link with a DNS host name. IP literals and anything unparsable are
// not checked.
func Hostname(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || !u.IsAbs() || strings.EqualFold(u.Scheme, "file") {
		return "", false
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == "" {
		return "", false
	}
	return ascii, true
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Nop()
	}
	return log
}
