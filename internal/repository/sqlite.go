package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteRepository implements TreeRepository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at dbPath and applies migrations
func NewSQLiteRepository(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveTree implements TreeRepository. The previous snapshot is removed in
// the same transaction.
func (r *SQLiteRepository) SaveTree(ctx context.Context, root *models.Folder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"bookmarks", "folders"} {
		if _, err := sq.Delete(table).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("cannot clear %s: %w", table, err)
		}
	}

	if err := saveFolder(ctx, tx, root, sql.NullInt64{}, 0); err != nil {
		return err
	}
	return tx.Commit()
}

func saveFolder(ctx context.Context, tx *sql.Tx, f *models.Folder, parentID sql.NullInt64, position int) error {
	res, err := sq.Insert("folders").
		Columns("title", "parent_id", "position", "add_date", "last_modified", "toolbar").
		Values(f.Title, parentID, position, f.CreatedDate.Unix(), f.LastModifiedDate.Unix(), f.PersonalToolbarFolder).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("cannot save folder %q: %w", f.FullTitle(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	folderID := sql.NullInt64{Int64: id, Valid: true}

	for i, child := range f.Children() {
		switch n := child.(type) {
		case *models.Bookmark:
			_, err := sq.Insert("bookmarks").
				Columns("title", "url", "icon", "folder_id", "position", "add_date").
				Values(n.Title, n.Link, n.Icon, id, i, n.CreatedDate.Unix()).
				RunWith(tx).
				ExecContext(ctx)
			if err != nil {
				return fmt.Errorf("cannot save bookmark %q: %w", models.Path(n), err)
			}
		case *models.Folder:
			if err := saveFolder(ctx, tx, n, folderID, i); err != nil {
				return err
			}
		}
	}
	return nil
}

type storedNode struct {
	position int
	node     models.Node
}

// LoadTree implements TreeRepository
func (r *SQLiteRepository) LoadTree(ctx context.Context) (*models.Folder, error) {
	folders, parents, err := r.loadFolders(ctx)
	if err != nil {
		return nil, err
	}

	content := make(map[int64][]storedNode)
	ids := make(map[*models.Folder]int64, len(folders))
	var root *models.Folder
	for id, f := range folders {
		ids[f] = id
		p := parents[id]
		if !p.parentID.Valid {
			root = f
			continue
		}
		content[p.parentID.Int64] = append(content[p.parentID.Int64], storedNode{position: p.position, node: f})
	}
	if root == nil {
		return nil, ErrNoTree
	}

	if err := r.loadBookmarks(ctx, content); err != nil {
		return nil, err
	}

	// Children are attached top-down so depths come out right.
	var attach func(f *models.Folder) error
	attach = func(f *models.Folder) error {
		nodes := content[ids[f]]
		sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].position < nodes[j].position })
		for _, sn := range nodes {
			if err := f.Append(sn.node); err != nil {
				return err
			}
		}
		for _, sn := range nodes {
			if sub, ok := sn.node.(*models.Folder); ok {
				if err := attach(sub); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := attach(root); err != nil {
		return nil, err
	}
	return root, nil
}

type folderLink struct {
	parentID sql.NullInt64
	position int
}

func (r *SQLiteRepository) loadFolders(ctx context.Context) (map[int64]*models.Folder, map[int64]folderLink, error) {
	rows, err := sq.Select("id", "title", "parent_id", "position", "add_date", "last_modified", "toolbar").
		From("folders").
		OrderBy("id").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	folders := make(map[int64]*models.Folder)
	links := make(map[int64]folderLink)
	for rows.Next() {
		var (
			id, added, modified int64
			link                folderLink
			f                   models.Folder
		)
		if err := rows.Scan(&id, &f.Title, &link.parentID, &link.position, &added, &modified, &f.PersonalToolbarFolder); err != nil {
			return nil, nil, err
		}
		f.CreatedDate = time.Unix(added, 0).UTC()
		f.LastModifiedDate = time.Unix(modified, 0).UTC()
		folders[id] = &f
		links[id] = link
	}
	return folders, links, rows.Err()
}

func (r *SQLiteRepository) loadBookmarks(ctx context.Context, content map[int64][]storedNode) error {
	rows, err := sq.Select("title", "url", "icon", "folder_id", "position", "add_date").
		From("bookmarks").
		OrderBy("id").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b               models.Bookmark
			icon            sql.NullString
			folderID, added int64
			position        int
		)
		if err := rows.Scan(&b.Title, &b.Link, &icon, &folderID, &position, &added); err != nil {
			return err
		}
		b.Icon = icon.String
		b.CreatedDate = time.Unix(added, 0).UTC()
		content[folderID] = append(content[folderID], storedNode{position: position, node: &b})
	}
	return rows.Err()
}
