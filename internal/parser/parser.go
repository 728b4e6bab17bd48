package parser

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// DocType is the first line of every Netscape bookmark file
const DocType = "<!DOCTYPE NETSCAPE-Bookmark-file-1>"

var (
	ErrEmptyDocument = errors.New("document contains no lines")
	ErrDoctype       = errors.New("unexpected document type")
	ErrMalformedTag  = errors.New("malformed tag")
	ErrNoRoot        = errors.New("no root folder found")
	ErrUnterminated  = errors.New("document ended before the root folder was closed")
)

const (
	openFolder  = "<DL><p>"
	closeFolder = "</DL><p>"
)

// Parse checks the doctype on the first line, strips comments from the rest
// and builds the bookmark tree.
func Parse(lines iter.Seq[string], log *logger.Logger) (*models.Folder, error) {
	next, stop := iter.Pull(lines)
	defer stop()

	first, ok := next()
	if !ok {
		return nil, ErrEmptyDocument
	}
	if !strings.EqualFold(strings.TrimSpace(first), DocType) {
		return nil, fmt.Errorf("%w: expected the first line to contain %q, maybe the file is invalid or the format has changed", ErrDoctype, DocType)
	}

	rest := func(yield func(string) bool) {
		for {
			line, ok := next()
			if !ok || !yield(line) {
				return
			}
		}
	}
	return Build(StripComments(rest), log)
}

// Parser builds a bookmark tree from comment-free lines
type Parser struct {
	log *logger.Logger

	currentFolder *models.Folder // folder open for insertion
	parsingFolder *models.Folder // heading parsed, waiting for its <DL><p>
}

// NewParser creates a new parser reporting diagnostics to log
func NewParser(log *logger.Logger) *Parser {
	if log == nil {
		log = logger.Nop()
	}
	return &Parser{log: log}
}

// Build is a shortcut for NewParser(log).Build(lines)
func Build(lines iter.Seq[string], log *logger.Logger) (*models.Folder, error) {
	return NewParser(log).Build(lines)
}

// Build consumes lines until the root folder is closed and returns the root.
// Unrecognised lines are reported and skipped.
func (p *Parser) Build(lines iter.Seq[string]) (*models.Folder, error) {
	p.currentFolder, p.parsingFolder = nil, nil
	rootSeen := false

	for raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		done, err := p.consume(line)
		if err != nil {
			return nil, err
		}
		if done {
			return p.currentFolder, nil
		}
		if p.currentFolder != nil {
			rootSeen = true
		}
	}

	if !rootSeen {
		return nil, ErrNoRoot
	}
	return nil, ErrUnterminated
}

// consume handles one trimmed line. done is true once the root is closed.
func (p *Parser) consume(line string) (done bool, err error) {
	if p.currentFolder == nil {
		switch {
		case hasPrefixFold(line, "<H1>"):
			tag, err := ParseTag(line, "H1")
			if err != nil {
				return false, err
			}
			p.parsingFolder = models.NewRoot(tag.InnerText)
			return false, nil
		case hasPrefixFold(line, "<META"), hasPrefixFold(line, "<TITLE>"):
			return false, nil
		}
	} else {
		switch {
		case hasPrefixFold(line, "<DT><A "):
			b, err := p.parseBookmark(line)
			if err != nil {
				return false, err
			}
			return false, p.currentFolder.Append(b)
		case hasPrefixFold(line, "<DT><H3"):
			f, err := p.parseFolder(line)
			if err != nil {
				return false, err
			}
			p.parsingFolder = f
			return false, nil
		case strings.EqualFold(line, closeFolder):
			parent := p.currentFolder.Parent()
			if parent == nil {
				return true, nil
			}
			p.currentFolder = parent
			return false, nil
		}
	}

	if strings.EqualFold(line, openFolder) && p.parsingFolder != nil {
		if p.currentFolder != nil {
			if err := p.currentFolder.Append(p.parsingFolder); err != nil {
				return false, err
			}
		}
		p.currentFolder = p.parsingFolder
		p.parsingFolder = nil
		return false, nil
	}

	if p.currentFolder == nil {
		p.log.Warn().Str("line", line).Msg("invalid line before the root folder")
	} else {
		p.log.Warn().Str("line", line).Str("folder", p.currentFolder.FullTitle()).Msg("unrecognised line")
	}
	return false, nil
}

func (p *Parser) parseBookmark(line string) (*models.Bookmark, error) {
	tag, err := ParseTag(line+"</DT>", "DT", "A")
	if err != nil {
		return nil, err
	}

	link, _ := tag.Attributes.Get("HREF")
	icon, _ := tag.Attributes.Get("ICON")
	return &models.Bookmark{
		Entry: models.Entry{
			Title:       tag.InnerText,
			Depth:       p.currentFolder.Depth + 1,
			CreatedDate: p.date(tag.Attributes, "ADD_DATE"),
		},
		Icon: icon,
		Link: link,
	}, nil
}

func (p *Parser) parseFolder(line string) (*models.Folder, error) {
	tag, err := ParseTag(line+"</DT>", "DT", "H3")
	if err != nil {
		return nil, err
	}

	toolbar := false
	if v, ok := tag.Attributes.Get("PERSONAL_TOOLBAR_FOLDER"); ok {
		toolbar, err = strconv.ParseBool(v)
		if err != nil {
			p.log.Warn().Str("value", v).Str("title", tag.InnerText).Msg("invalid toolbar flag, assuming false")
		}
	}

	return &models.Folder{
		Entry: models.Entry{
			Title:       tag.InnerText,
			Depth:       p.currentFolder.Depth + 1,
			CreatedDate: p.date(tag.Attributes, "ADD_DATE"),
		},
		LastModifiedDate:      p.date(tag.Attributes, "LAST_MODIFIED"),
		PersonalToolbarFolder: toolbar,
	}, nil
}

// date reads a unix-seconds attribute. Absent or invalid values yield the epoch.
func (p *Parser) date(attrs Attributes, name string) time.Time {
	v, ok := attrs.Get(name)
	if !ok {
		return time.Unix(0, 0).UTC()
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		p.log.Warn().Err(err).Str("attribute", name).Str("value", v).Msg("while parsing unix time")
		return time.Unix(0, 0).UTC()
	}
	return time.Unix(secs, 0).UTC()
}
