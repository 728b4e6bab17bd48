package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/net/html"

	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

const (
	ModeNormal = 1
	ModeModal  = 2
)

const dateLayout = "2006-01-02 15:04"

var typeLabels = map[models.ItemType]string{
	models.ItemTypeBookmark: "Bookmark",
	models.ItemTypeFolder:   "Folder",
}

// App shows an organised bookmark tree and lets the user decide whether to
// write it
type App struct {
	app      *tview.Application
	tree     *tview.TreeView
	detail   *tview.TextView
	status   *tview.TextView
	pages    *tview.Pages
	mode     uint8
	accepted bool
}

// NewApp creates a new application instance
func NewApp() *App {
	return &App{
		app:    tview.NewApplication(),
		tree:   tview.NewTreeView(),
		detail: tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		status: tview.NewTextView().SetDynamicColors(true),
		pages:  tview.NewPages(),
		mode:   ModeNormal,
	}
}

// Preview runs the application until the user writes (w) or quits (q)
func (a *App) Preview(root *models.Folder) (bool, error) {
	top := buildTree(root)
	a.tree.SetRoot(top).SetCurrentNode(top)
	a.tree.SetBorder(true).SetTitle("Organised bookmarks")
	a.detail.SetBorder(true).SetTitle("Details")

	a.tree.SetChangedFunc(func(node *tview.TreeNode) {
		a.detail.SetText(detailText(node.GetReference()))
	})
	a.tree.SetSelectedFunc(func(node *tview.TreeNode) {
		switch ref := node.GetReference().(type) {
		case *models.Folder:
			node.SetExpanded(!node.IsExpanded())
		case *models.Bookmark:
			openURL(ref.Link)
		}
	})

	cols := tview.NewFlex().
		AddItem(a.tree, 0, 2, true).
		AddItem(a.detail, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(cols, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage("main", main, true, true)
	a.detail.SetText(detailText(root))
	a.updateStatus(root)

	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)
	a.app.SetFocus(a.tree)

	if err := a.app.Run(); err != nil {
		return false, err
	}
	return a.accepted, nil
}

func (a *App) updateStatus(root *models.Folder) {
	countText := fmt.Sprintf(" [::b]%d[::r] bookmarks, [::b]%d[::r] folders",
		len(models.Bookmarks(root)), len(models.Folders(root)))
	a.status.SetText("[::b]Enter[::r] expand/open  [::b]w[::r] write  [::b]q[::r] quit without writing" + countText)
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	if a.mode == ModeModal || event.Key() != tcell.KeyRune {
		return event
	}

	switch event.Rune() {
	case 'w':
		a.showConfirm("Write the organised bookmarks?", func() {
			a.accepted = true
			a.app.Stop()
		})
		return nil
	case 'q':
		a.accepted = false
		a.app.Stop()
		return nil
	}
	return event
}

func (a *App) showConfirm(message string, onConfirm func()) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"Cancel", "OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("confirm")
			a.mode = ModeNormal
			a.app.SetFocus(a.tree)
			if buttonIndex == 1 && onConfirm != nil {
				onConfirm()
			}
		})

	modal.SetBorder(true).SetTitle("Confirm")
	a.pages.AddPage("confirm", modal, true, true)
	a.mode = ModeModal
	a.app.SetFocus(modal)
}

// buildTree mirrors a folder as tview nodes. Every node references the
// bookmark or folder it shows.
func buildTree(f *models.Folder) *tview.TreeNode {
	node := tview.NewTreeNode(displayTitle(f.Title) + "/").
		SetReference(f).
		SetSelectable(true).
		SetColor(tcell.ColorGreen)

	for _, child := range f.Children() {
		switch n := child.(type) {
		case *models.Folder:
			node.AddChild(buildTree(n))
		case *models.Bookmark:
			node.AddChild(tview.NewTreeNode(displayTitle(n.Title)).
				SetReference(n).
				SetSelectable(true))
		}
	}
	return node
}

func detailText(ref any) string {
	switch n := ref.(type) {
	case *models.Folder:
		return fmt.Sprintf(
			"[::b]Type:[::-]\n%s\n\n[::b]Path:[::-]\n%s\n\n[::b]Added:[::-]\n%s\n\n[::b]Modified:[::-]\n%s\n\n[::b]Items:[::-]\n%d",
			typeLabels[n.Type()], displayTitle(n.FullTitle()), formatDate(n.CreatedDate), formatDate(n.LastModifiedDate), len(n.Children()))
	case *models.Bookmark:
		return fmt.Sprintf(
			"[::b]Type:[::-]\n%s\n\n[::b]Title:[::-]\n%s\n\n[::b]URL:[::-]\n%s\n\n[::b]Folder:[::-]\n%s\n\n[::b]Added:[::-]\n%s",
			typeLabels[n.Type()], displayTitle(n.Title), tview.Escape(n.Link), displayTitle(n.Parent().FullTitle()), formatDate(n.CreatedDate))
	}
	return ""
}

// displayTitle decodes HTML entities kept in titles and escapes tview
// color tags.
func displayTitle(title string) string {
	return tview.Escape(html.UnescapeString(title))
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func openURL(url string) {
	var cmd string
	var args []string
	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}
	args = append(args, url)
	_ = exec.Command(cmd, args...).Start()
}
