package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
	"github.com/dastanaron/bookmarks-organiser/internal/parser"
)

const (
	generatedComment = "<!-- This is an automatically generated file.\n" +
		"     It will be read and overwritten.\n" +
		"     DO NOT EDIT! -->"
	metaType = `<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">`
)

// ExportCommand handles bookmark export to HTML file
type ExportCommand struct {
	log *logger.Logger
}

// NewExportCommand creates a new export command
func NewExportCommand(log *logger.Logger) *ExportCommand {
	if log == nil {
		log = logger.Nop()
	}
	return &ExportCommand{log: log}
}

// Execute writes the bookmark tree to filePath
func (c *ExportCommand) Execute(root *models.Folder, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}

	if err := WriteBookmarksHTML(file, root); err != nil {
		file.Close()
		return fmt.Errorf("cannot write bookmarks: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("cannot write bookmarks: %w", err)
	}

	c.log.Info().Int("bookmarks", len(models.Bookmarks(root))).Str("path", filePath).Msg("exported bookmarks")
	return nil
}

// WriteBookmarksHTML renders the tree in the Netscape bookmark format
func WriteBookmarksHTML(w io.Writer, root *models.Folder) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, parser.DocType)
	fmt.Fprintln(bw, generatedComment)
	fmt.Fprintln(bw, metaType)
	fmt.Fprintf(bw, "<TITLE>%s</TITLE>\n", root.Title)
	fmt.Fprintf(bw, "<H1>%s</H1>\n", root.Title)
	writeFolder(bw, root)

	return bw.Flush()
}

// writeFolder writes the folder content wrapped in <DL><p> recursively
func writeFolder(w *bufio.Writer, folder *models.Folder) {
	indent := indentFor(folder)
	fmt.Fprintf(w, "%s<DL><p>\n", indent)

	for _, node := range folder.Children() {
		switch n := node.(type) {
		case *models.Bookmark:
			writeBookmark(w, n)
		case *models.Folder:
			writeFolderHeading(w, n)
			writeFolder(w, n)
		}
	}

	fmt.Fprintf(w, "%s</DL><p>\n", indent)
}

func writeFolderHeading(w *bufio.Writer, f *models.Folder) {
	toolbar := ""
	if f.PersonalToolbarFolder {
		toolbar = ` PERSONAL_TOOLBAR_FOLDER="true"`
	}
	fmt.Fprintf(w, "%s<DT><H3 ADD_DATE=\"%d\" LAST_MODIFIED=\"%d\"%s>%s</H3>\n",
		indentFor(f), f.CreatedDate.Unix(), f.LastModifiedDate.Unix(), toolbar, f.Title)
}

// writeBookmark writes a single bookmark, with its icon if available
func writeBookmark(w *bufio.Writer, b *models.Bookmark) {
	icon := ""
	if strings.TrimSpace(b.Icon) != "" {
		icon = fmt.Sprintf(` ICON="%s"`, b.Icon)
	}
	fmt.Fprintf(w, "%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"%s>%s</A>\n",
		indentFor(b), b.Link, b.CreatedDate.Unix(), icon, b.Title)
}

func indentFor(n models.Node) string {
	return strings.Repeat(" ", n.Info().Depth*4)
}
