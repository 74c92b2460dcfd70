package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gi8lino/jiracloud/confluence"
	"github.com/gi8lino/jiracloud/internal/config"
	"github.com/gi8lino/jiracloud/internal/flag"
	"github.com/gi8lino/jiracloud/internal/render"
	"github.com/gi8lino/jiracloud/jira"
	"github.com/gi8lino/jiracloud/ticket"
)

// command runs one --command against the client.
type command struct {
	client *jira.Client
	cfg    config.Config
	flags  flag.Config
	out    io.Writer
	logger *slog.Logger
}

func (c *command) run(ctx context.Context) error {
	switch c.flags.Command {
	case "search":
		return c.search(ctx)
	case "history":
		return c.history(ctx)
	case "fix-versions":
		return c.fixVersions(ctx)
	case "set-fix-versions":
		return c.setFixVersions(ctx)
	case "create-version":
		return c.createVersion(ctx)
	case "versions":
		return c.versions(ctx)
	case "options":
		return c.options(ctx)
	case "release-notes":
		return c.releaseNotes(ctx)
	case "releases":
		return c.releases(ctx)
	case "release-version":
		return c.releaseVersion(ctx)
	case "set-features":
		return c.setFeatures(ctx)
	case "images":
		return c.images(ctx)
	case "pages":
		return c.pages(ctx)
	default:
		return fmt.Errorf("unknown command %q", c.flags.Command)
	}
}

// require fails when one of the named flag values is empty.
func (c *command) require(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if v == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("command %q requires %s", c.flags.Command, strings.Join(missing, ", "))
}

func (c *command) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...) // nolint:errcheck
}

func (c *command) search(ctx context.Context) error {
	if err := c.require(map[string]string{"jql": c.flags.JQL}); err != nil {
		return err
	}
	issues, err := c.client.LoadAllIssues(ctx, c.flags.JQL, jira.SearchOptions{
		Fields: []string{"summary", "status", "issuetype"},
	})
	if err != nil {
		return err
	}
	for _, issue := range issues {
		c.printf("%s\t%s\t%s\t%s\n", issue.Key(), issue.Status(), issue.Type(), issue.Title())
	}
	c.logger.Info("search done", "issues", len(issues))
	return nil
}

func (c *command) history(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key}); err != nil {
		return err
	}
	history, err := c.client.LoadHistory(ctx, c.flags.Key)
	if err != nil {
		return err
	}
	for _, h := range history {
		c.printf("%s: %q -> %q\n", h.Field, h.From, h.To)
	}
	return nil
}

func (c *command) fixVersions(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key}); err != nil {
		return err
	}
	versions, err := c.client.GetFixVersions(ctx, c.flags.Key)
	if err != nil {
		return err
	}
	c.printf("%s\n", strings.Join(versions, ", "))
	return nil
}

func (c *command) setFixVersions(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key}); err != nil {
		return err
	}
	outcome, err := c.client.SetFixVersions(ctx, c.flags.Key, c.flags.Versions)
	if err != nil {
		return err
	}
	c.printf("%s: fix versions %s\n", c.flags.Key, outcome)
	return nil
}

func (c *command) createVersion(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key, "name": c.flags.Name}); err != nil {
		return err
	}
	created, err := c.client.CreateVersion(ctx, c.flags.Key, c.flags.Name)
	if err != nil {
		return err
	}
	if !created {
		c.printf("version %s already exists\n", c.flags.Name)
		return nil
	}
	c.printf("version %s created\n", c.flags.Name)
	return nil
}

func (c *command) versions(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key}); err != nil {
		return err
	}
	project, _, _ := strings.Cut(c.flags.Key, "-")
	versions, err := c.client.ProjectVersions(ctx, project)
	if err != nil {
		return err
	}
	for _, v := range versions {
		state := "unreleased"
		if v.Released {
			state = "released"
		}
		c.printf("%s\t%s\t%s\n", v.ID, v.Name, state)
	}
	return nil
}

func (c *command) options(ctx context.Context) error {
	if err := c.require(map[string]string{"field": c.flags.Field, "context": c.flags.Context}); err != nil {
		return err
	}
	opts, err := c.client.LoadFieldOptions(ctx, c.flags.Field, c.flags.Context, c.flags.Sorted)
	if err != nil {
		return err
	}
	for _, o := range opts {
		if o.Disabled {
			c.printf("%s\t%s\tdisabled\n", o.ID, o.Value)
			continue
		}
		c.printf("%s\t%s\n", o.ID, o.Value)
	}
	return nil
}

func (c *command) releaseNotes(ctx context.Context) error {
	if err := c.require(map[string]string{"page": c.flags.Page}); err != nil {
		return err
	}
	langName := c.flags.Lang
	if langName == "" {
		langName = c.cfg.ReleaseNotes.Language
	}
	lang, err := ticket.ParseLang(langName)
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer(c.cfg.ReleaseNotes.Template)
	if err != nil {
		return err
	}

	tickets, err := ticket.LoadReleaseNoteTickets(ctx, c.client, c.flags.Page)
	if err != nil {
		return err
	}

	data := render.ReleaseNotes{PageID: c.flags.Page, Lang: string(lang)}
	for _, t := range tickets {
		note, err := c.releaseNote(ctx, t, lang)
		if err != nil {
			return fmt.Errorf("release note %s: %w", t.Key(), err)
		}
		data.Notes = append(data.Notes, note)
	}
	c.logger.Debug("rendering release notes", "page", c.flags.Page, "notes", len(data.Notes))
	return renderer.Render(c.out, data)
}

// releaseNote resolves the texts and enrichments of one release note ticket.
func (c *command) releaseNote(ctx context.Context, t *ticket.ReleaseNoteTicket, lang ticket.Lang) (render.Note, error) {
	title, err := t.Title(lang)
	if err != nil {
		return render.Note{}, err
	}
	summary, err := docText(ctx, t.Summary(), lang)
	if err != nil {
		return render.Note{}, err
	}
	details, err := docText(ctx, t.Details(), lang)
	if err != nil {
		return render.Note{}, err
	}

	if c.cfg.CustomerTicketField != "" {
		t.ResolveCustomerTicketNumber(ctx, c.cfg.CustomerTicketField)
	}

	return render.Note{
		Key:                  t.Key(),
		ReleaseFor:           t.ReleaseFor(),
		Type:                 t.LinkedTicketType(ctx),
		CustomerTicketNumber: t.CustomerTicketNumber,
		Title:                title,
		Summary:              summary,
		Details:              details,
		SortKey:              t.SortKey,
		Updated:              t.Issue().Updated(),
	}, nil
}

// docText returns the text of a language variant. An unset field reads as "".
func docText(ctx context.Context, ml ticket.DocFieldML, lang ticket.Lang) (string, error) {
	f, err := ml.Get(lang)
	if err != nil {
		return "", err
	}
	text, err := f.Text(ctx)
	if errors.Is(err, jira.ErrFieldMissing) {
		return "", nil
	}
	return text, err
}

// releases lists the release tickets of a project that carry a release page.
func (c *command) releases(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key}); err != nil {
		return err
	}
	project, _, _ := strings.Cut(c.flags.Key, "-")
	tickets, err := ticket.LoadReleaseTickets(ctx, c.client, project)
	if err != nil {
		return err
	}
	for _, t := range tickets {
		if !t.IsRelevant() {
			c.logger.Debug("skipping release ticket", "key", t.Key())
			continue
		}
		c.printf("%s\t%s\t%s\n", t.Key(), t.TargetVersion(), t.PageID())
	}
	return nil
}

func (c *command) releaseVersion(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key, "name": c.flags.Name}); err != nil {
		return err
	}
	project, _, _ := strings.Cut(c.flags.Key, "-")
	versions, err := c.client.ProjectVersions(ctx, project)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(versions, func(v jira.Version) bool { return v.Name == c.flags.Name })
	if i < 0 {
		return fmt.Errorf("%w: %s in %s", jira.ErrVersionNotExist, c.flags.Name, project)
	}
	if versions[i].Released {
		c.printf("version %s already released\n", c.flags.Name)
		return nil
	}
	if err := c.client.ReleaseVersion(ctx, versions[i].ID); err != nil {
		return err
	}
	c.printf("version %s released\n", c.flags.Name)
	return nil
}

func (c *command) setFeatures(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key}); err != nil {
		return err
	}
	if err := c.client.SaveFeatureNumbers(ctx, c.flags.Key, c.flags.Features); err != nil {
		return err
	}
	c.printf("%s: features %s\n", c.flags.Key, strings.Join(c.flags.Features, ", "))
	return nil
}

// images saves the release note images of one ticket into the output directory.
func (c *command) images(ctx context.Context) error {
	if err := c.require(map[string]string{"key": c.flags.Key, "out": c.flags.OutDir}); err != nil {
		return err
	}
	var langs []ticket.Lang
	if c.flags.Lang != "" {
		lang, err := ticket.ParseLang(c.flags.Lang)
		if err != nil {
			return err
		}
		langs = append(langs, lang)
	}

	tickets, err := ticket.LoadRawRNTickets(ctx, c.client, fmt.Sprintf("issue=%q", c.flags.Key))
	if err != nil {
		return err
	}
	if len(tickets) != 1 {
		return fmt.Errorf("%w: %d tickets for %s", jira.ErrUnexpectedResult, len(tickets), c.flags.Key)
	}
	t := tickets[0]
	if err := t.LoadImages(ctx, langs...); err != nil {
		return err
	}

	if err := os.MkdirAll(c.flags.OutDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", c.flags.OutDir, err)
	}
	if len(langs) == 0 {
		langs = ticket.Langs
	}
	saved := 0
	for _, lang := range langs {
		for _, ml := range []ticket.StaticDocFieldML{t.Summary, t.Details} {
			f, err := ml.Get(lang)
			if err != nil {
				return err
			}
			for _, img := range f.Images {
				path := filepath.Join(c.flags.OutDir, img.Filename())
				if err := img.Save(path); err != nil {
					return err
				}
				c.printf("%s\n", path)
				saved++
			}
		}
	}
	c.logger.Info("images saved", "key", c.flags.Key, "count", saved)
	return nil
}

func (c *command) pages(ctx context.Context) error {
	cc := confluence.NewClient(c.client)

	if c.flags.Page == "" {
		pages, err := cc.LoadAllPages(ctx)
		if err != nil {
			return err
		}
		for _, p := range pages {
			c.printf("%s\t%s\t%s\n", p.ID, p.Tiny, p.Title)
		}
		return nil
	}

	isPage, err := confluence.IsPageURL(c.flags.Page)
	if err != nil {
		return err
	}
	var known []confluence.PageTitle
	if !isPage {
		// tiny links resolve only through the page list
		if known, err = cc.LoadAllPages(ctx); err != nil {
			return err
		}
		if known == nil {
			known = []confluence.PageTitle{}
		}
	}

	title, found, err := cc.PageTitle(ctx, c.flags.Page, known)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("page %s not found", c.flags.Page)
	}
	c.printf("%s\n", title)
	return nil
}
