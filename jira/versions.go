package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/sjson"
)

// FixVersionOutcome tells how far SetFixVersions got.
type FixVersionOutcome int

const (
	// FixVersionsWritten means the fix versions were stored on the issue.
	FixVersionsWritten FixVersionOutcome = iota
	// FixVersionsNotOnScreen means the issue has no fix versions field on its
	// edit screen (e.g. it was moved to another project); nothing was written.
	FixVersionsNotOnScreen
)

func (o FixVersionOutcome) String() string {
	if o == FixVersionsNotOnScreen {
		return "not written"
	}
	return "written"
}

// Known error texts of the issue and version APIs.
const (
	msgVersionName      = "Version name"
	msgIsNotValid       = "is not valid"
	msgNotOnScreen      = "It is not on the appropriate screen"
	msgAlreadyExists    = "already exists"
	msgIssueNotExist    = "Issue does not exist"
	msgFieldCannotBeSet = "cannot be set"
)

const versionDescription = "automated entry"

func issuePath(key string) string { return "/rest/api/3/issue/" + url.PathEscape(key) }

// fieldUpdate builds the issue edit body {"fields":{field: value}}.
func fieldUpdate(field string, value any) (json.RawMessage, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "fields."+escapeSegment(field), value)
	if err != nil {
		return nil, fmt.Errorf("build %s update: %w", field, err)
	}
	return body, nil
}

// SetFixVersions replaces the fix versions of an issue.
// An unknown version name yields ErrVersionNotExist. An issue without the fix
// versions field on its screen yields FixVersionsNotOnScreen and no error.
func (c *Client) SetFixVersions(ctx context.Context, key string, versions []string) (FixVersionOutcome, error) {
	fvs := make([]FixVersion, 0, len(versions))
	for _, v := range versions {
		fvs = append(fvs, FixVersion{Name: v, Description: versionDescription})
	}
	body, err := fieldUpdate("fixVersions", fvs)
	if err != nil {
		return FixVersionsWritten, err
	}

	// known outcomes are matched below; only unmatched failures are logged as errors
	resp, status, err := c.doRequest(BestEffort(ctx), http.MethodPut, issuePath(key), body)
	text := string(resp)
	switch {
	case strings.Contains(text, msgVersionName) && strings.Contains(text, msgIsNotValid):
		return FixVersionsWritten, fmt.Errorf("set fix versions of %s %v: %w", key, versions, ErrVersionNotExist)
	case strings.Contains(text, msgNotOnScreen):
		c.logger.Warn("fix versions not on screen", "key", key)
		return FixVersionsNotOnScreen, nil
	case err != nil:
		c.logger.Error("set fix versions failed", "key", key, "status", status, "response", string(trim(resp, 2048)))
		return FixVersionsWritten, fmt.Errorf("set fix versions of %s: %w", key, err)
	}
	return FixVersionsWritten, nil
}

// GetFixVersions returns the fix version names of an issue.
func (c *Client) GetFixVersions(ctx context.Context, key string) ([]string, error) {
	if !strings.Contains(key, "-") {
		return nil, invalidArgument("ticket number %q", key)
	}
	t, err := c.LoadTicket(ctx, key)
	if err != nil {
		return nil, err
	}
	return t.FixVersions, nil
}

// LoadTicket loads the typed summary of one issue.
func (c *Client) LoadTicket(ctx context.Context, key string) (Ticket, error) {
	body, err := c.Get(ctx, issuePath(key))
	if err != nil {
		return Ticket{}, fmt.Errorf("can not load ticket %s: %w", key, err)
	}

	var p issuePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Ticket{}, fmt.Errorf("decode ticket %s: %w", key, err)
	}

	t := Ticket{
		Key:       p.Key,
		IssueType: p.Fields.IssueType.Name,
		Summary:   p.Fields.Summary,
		Status:    p.Fields.Status.Name,
		Labels:    p.Fields.Labels,
	}
	if p.Fields.Resolution != nil {
		t.Resolution = p.Fields.Resolution.Name
	}
	for _, fv := range p.Fields.FixVersions {
		t.FixVersions = append(t.FixVersions, fv.Name)
	}
	for _, st := range p.Fields.Subtasks {
		t.Subtasks = append(t.Subtasks, Subtask{Key: st.Key, IssueType: st.Fields.IssueType.Name})
	}
	return t, nil
}

// ProjectID resolves the numeric project ID from a ticket number or "KEY-" prefix.
func (c *Client) ProjectID(ctx context.Context, keyOrProject string) (string, error) {
	project, _, ok := strings.Cut(keyOrProject, "-")
	if !ok || project == "" {
		return "", invalidArgument("ticket number or project prefix %q", keyOrProject)
	}

	body, err := c.Get(ctx, "/rest/api/3/project/"+url.PathEscape(project))
	if err != nil {
		return "", fmt.Errorf("load project %s: %w", project, err)
	}

	var p Project
	if err := json.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("decode project %s: %w", project, err)
	}
	return p.ID, nil
}

// CreateVersion creates a version in the project of keyOrProject ("XDEV-4711" or "XDEV-").
// It returns false without error when the version already exists.
func (c *Client) CreateVersion(ctx context.Context, keyOrProject, name string) (bool, error) {
	projectID, err := c.ProjectID(ctx, keyOrProject)
	if err != nil {
		return false, err
	}

	body := map[string]any{
		"archived":    false,
		"description": "created by jiracloud " + c.now().Format("2006-01-02 15:04"),
		"name":        name,
		"projectId":   json.Number(projectID),
		"released":    false,
	}
	resp, status, err := c.doRequest(BestEffort(ctx), http.MethodPost, "/rest/api/3/version", body)
	if err != nil {
		if bytes.Contains(resp, []byte(msgAlreadyExists)) {
			c.logger.Info("version already exists", "version", name, "project", projectID)
			return false, nil
		}
		c.logger.Error("create version failed", "version", name, "status", status, "response", string(trim(resp, 2048)))
		return false, fmt.Errorf("create version %s: %w", name, err)
	}
	return true, nil
}

// ProjectVersions lists all versions of a project.
func (c *Client) ProjectVersions(ctx context.Context, project string) ([]Version, error) {
	body, err := c.Get(ctx, "/rest/api/3/project/"+url.PathEscape(project)+"/versions")
	if err != nil {
		return nil, fmt.Errorf("load versions of %s: %w", project, err)
	}
	var out []Version
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode versions of %s: %w", project, err)
	}
	return out, nil
}

// ReleaseVersion marks a version as released.
func (c *Client) ReleaseVersion(ctx context.Context, versionID string) error {
	if _, err := c.Put(ctx, "/rest/api/3/version/"+url.PathEscape(versionID), map[string]bool{"released": true}); err != nil {
		return fmt.Errorf("release version %s: %w", versionID, err)
	}
	return nil
}

// SaveFeatureNumbers replaces the features field of an issue with the given values.
func (c *Client) SaveFeatureNumbers(ctx context.Context, key string, features []string) error {
	type option struct {
		Value string `json:"value"`
	}
	opts := make([]option, 0, len(features))
	for _, f := range features {
		opts = append(opts, option{Value: f})
	}
	body, err := fieldUpdate(FieldFeatures, opts)
	if err != nil {
		return err
	}

	resp, status, err := c.doRequest(BestEffort(ctx), http.MethodPut, issuePath(key), body)
	if err == nil {
		return nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch {
		case bytes.Contains(resp, []byte(msgIssueNotExist)):
			return fmt.Errorf("%s: %w", key, ErrIssueNotExist)
		case bytes.Contains(resp, []byte(msgFieldCannotBeSet)):
			return fmt.Errorf("%s: %w", key, ErrFeaturesFieldMissing)
		}
	}
	c.logger.Error("can not save feature numbers", "key", key, "status", status, "response", string(trim(resp, 2048)))
	return fmt.Errorf("can not save feature numbers of %s: %w", key, err)
}
