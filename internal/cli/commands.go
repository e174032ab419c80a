package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/completion"
	"github.com/dmitrijs2005/dockeeper/internal/models"
)

func (a *App) requireLogin() (string, error) {
	owner := a.owner()
	if owner == "" {
		return "", common.ErrNoSession
	}
	return owner, nil
}

func statusMark(s models.SyncStatus) string {
	switch s {
	case models.StatusSynced:
		return "synced"
	case models.StatusPending:
		return "pending"
	case models.StatusError:
		return "error"
	}
	return string(s)
}

func (a *App) listProjects(ctx context.Context) error {
	owner, err := a.requireLogin()
	if err != nil {
		return err
	}
	list, err := a.projects.List(ctx, owner)
	if err != nil {
		return err
	}
	for _, p := range list {
		fmt.Fprintf(a.out, "%s  %-30s [%s]\n", p.ID, p.Name, statusMark(p.SyncStatus))
	}
	fmt.Fprintf(a.out, "%d project(s)\n", len(list))
	return nil
}

func (a *App) listDocs(ctx context.Context, args []string) error {
	owner, err := a.requireLogin()
	if err != nil {
		return err
	}

	var list []*models.Document
	if len(args) > 0 {
		list, err = a.docs.ListByProject(ctx, owner, args[0])
	} else {
		list, err = a.docs.List(ctx, owner)
	}
	if err != nil {
		return err
	}
	for _, d := range list {
		fmt.Fprintf(a.out, "%s  %-30s project=%s [%s]\n", d.ID, d.Title, d.ProjectID, statusMark(d.SyncStatus))
	}
	fmt.Fprintf(a.out, "%d document(s)\n", len(list))
	return nil
}

func (a *App) listInfo(ctx context.Context, args []string) error {
	owner, err := a.requireLogin()
	if err != nil {
		return err
	}

	var list []*models.StandardInfo
	if len(args) > 0 {
		list, err = a.info.ListByCategory(ctx, owner, args[0])
	} else {
		list, err = a.info.List(ctx, owner)
	}
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Fprintf(a.out, "%s  %-30s category=%s [%s]\n", s.ID, s.Title, s.Category, statusMark(s.SyncStatus))
	}
	fmt.Fprintf(a.out, "%d entrie(s)\n", len(list))
	return nil
}

func (a *App) addProject(ctx context.Context) error {
	owner, err := a.requireLogin()
	if err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, "Project name", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	tags, err := GetTags(a.reader, a.out)
	if err != nil {
		return err
	}

	rec, err := a.projects.Create(ctx, owner, name, description, tags)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created project %s (pending sync)\n", rec.ID)
	return nil
}

func (a *App) addDoc(ctx context.Context) error {
	owner, err := a.requireLogin()
	if err != nil {
		return err
	}

	projectID, err := GetSimpleText(a.reader, "Project id (empty for none)", a.out)
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetSimpleText(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	tags, err := GetTags(a.reader, a.out)
	if err != nil {
		return err
	}

	rec, err := a.docs.Create(ctx, owner, projectID, title, content, tags, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created document %s (pending sync)\n", rec.ID)
	return nil
}

func (a *App) addInfo(ctx context.Context) error {
	owner, err := a.requireLogin()
	if err != nil {
		return err
	}

	category, err := GetSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetSimpleText(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	tags, err := GetTags(a.reader, a.out)
	if err != nil {
		return err
	}

	rec, err := a.info.Create(ctx, owner, category, title, content, tags)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created entry %s (pending sync)\n", rec.ID)
	return nil
}

func (a *App) editDoc(ctx context.Context, args []string) error {
	if _, err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: editdoc <id>")
		return nil
	}

	d, err := a.docs.Get(ctx, args[0])
	if err != nil {
		return err
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", d.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		d.Title = title
	}
	content, err := GetSimpleText(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		d.Content = content
	}

	if err := a.docs.Update(ctx, d); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s (pending sync)\n", d.ID)
	return nil
}

func (a *App) deleteRecord(ctx context.Context, args []string, del func(context.Context, string) error) error {
	if _, err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: del* <id>")
		return nil
	}
	if err := del(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}

func (a *App) showDoc(ctx context.Context, args []string) error {
	if _, err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: show <doc id>")
		return nil
	}

	d, err := a.docs.Get(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "# %s\n", d.Title)
	if len(d.Tags) > 0 {
		fmt.Fprintf(a.out, "tags: %s\n", strings.Join(d.Tags, ", "))
	}
	fmt.Fprintln(a.out, d.Content)
	return nil
}

func (a *App) ask(ctx context.Context) error {
	if _, err := a.requireLogin(); err != nil {
		return err
	}

	prompt, err := GetSimpleText(a.reader, "Prompt", a.out)
	if err != nil {
		return err
	}
	docContext, err := GetSimpleText(a.reader, "Context (optional)", a.out)
	if err != nil {
		return err
	}

	text, err := a.completion.Generate(ctx, completion.Request{Prompt: prompt, Context: docContext})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *App) runSync(ctx context.Context) error {
	if _, err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.sync.Sync(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sync finished")
	return nil
}

func (a *App) printStatus() {
	state := a.sync.State()

	mode := "offline"
	if state.IsOnline {
		mode = "online"
	}
	fmt.Fprintf(a.out, "mode: %s\n", mode)
	if state.IsSyncing {
		fmt.Fprintln(a.out, "sync in progress")
	}
	if state.LastSyncAt != nil {
		fmt.Fprintf(a.out, "last sync: %s\n", state.LastSyncAt.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(a.out, "last sync: never")
	}
	if state.SyncError != "" {
		fmt.Fprintf(a.out, "last error: %s\n", state.SyncError)
	}

	printTable := func(name string, ts models.TableStats) {
		fmt.Fprintf(a.out, "%-14s total=%d synced=%d pending=%d error=%d\n",
			name, ts.Total, ts.Synced, ts.Pending, ts.Error)
	}
	printTable("projects", state.Stats.Projects)
	printTable("documents", state.Stats.Documents)
	printTable("standard info", state.Stats.StandardInfo)
	fmt.Fprintf(a.out, "queue length: %d\n", state.Stats.QueueLength)
}

func (a *App) cacheCmd(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := a.completion.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Cache cleared")
		return nil
	}

	stats, err := a.completion.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "cache entries: %d (%d expired, awaiting eviction)\n", stats.Total, stats.Expired)
	return nil
}
