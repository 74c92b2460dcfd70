package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// MaxOptionsPerRequest is the largest batch the option create API accepts.
const MaxOptionsPerRequest = 1000

// FieldOption is one allowed value of a custom select field.
type FieldOption struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

// Position is an absolute target for MoveFieldOptions.
type Position string

const (
	First Position = "First"
	Last  Position = "Last"
)

// MoveAction is where MoveFieldOptions places the options: after one option, or at a position.
type MoveAction struct {
	After    string
	Position Position
}

// MoveAfter places the options after the option with id.
func MoveAfter(id string) MoveAction { return MoveAction{After: id} }

// MoveToPosition places the options first or last.
func MoveToPosition(p Position) MoveAction { return MoveAction{Position: p} }

func (a MoveAction) validate() error {
	switch {
	case a.After != "" && a.Position != "":
		return invalidArgument("move action must set either after or position")
	case a.After != "":
		return nil
	case a.Position == First || a.Position == Last:
		return nil
	default:
		return invalidArgument("move position must be %q or %q", First, Last)
	}
}

// optionsPath returns the option endpoint of a field context. fieldID may be
// given as "10140" or "customfield_10140".
func optionsPath(fieldID, contextID string) string {
	if !strings.HasPrefix(fieldID, "customfield_") {
		fieldID = "customfield_" + fieldID
	}
	return "/rest/api/3/field/" + url.PathEscape(fieldID) + "/context/" + url.PathEscape(contextID) + "/option"
}

// LoadFieldOptions loads every option of a field context. The endpoint is paged
// until an empty page is returned; sorted orders the result by value.
func (c *Client) LoadFieldOptions(ctx context.Context, fieldID, contextID string, sorted bool) ([]FieldOption, error) {
	var out []FieldOption
	for {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(len(out)))

		body, err := c.Get(ctx, pathWithQuery(optionsPath(fieldID, contextID), q))
		if err != nil {
			return nil, fmt.Errorf("error loading field options: %w", err)
		}

		var page struct {
			Values []FieldOption `json:"values"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode field options: %w", err)
		}
		if len(page.Values) == 0 {
			break
		}
		out = append(out, page.Values...)
	}

	if sorted {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	}
	return out, nil
}

// CreateFieldOptions adds options in batches of MaxOptionsPerRequest.
func (c *Client) CreateFieldOptions(ctx context.Context, fieldID, contextID string, values []string) error {
	type option struct {
		Value string `json:"value"`
	}
	for from := 0; from < len(values); from += MaxOptionsPerRequest {
		to := min(from+MaxOptionsPerRequest, len(values))

		batch := make([]option, 0, to-from)
		for _, v := range values[from:to] {
			batch = append(batch, option{Value: v})
		}
		body := map[string]any{"options": batch}
		if _, err := c.Post(ctx, optionsPath(fieldID, contextID), body); err != nil {
			return fmt.Errorf("error creating field options (%d to %d): %w", from, to, err)
		}
	}
	return nil
}

// SetFieldOptionsDisabled enables or disables the options with the given IDs.
func (c *Client) SetFieldOptionsDisabled(ctx context.Context, fieldID, contextID string, ids []string, disabled bool) error {
	type option struct {
		Disabled bool   `json:"disabled"`
		ID       string `json:"id"`
	}
	opts := make([]option, 0, len(ids))
	for _, id := range ids {
		opts = append(opts, option{Disabled: disabled, ID: id})
	}
	if _, err := c.Put(ctx, optionsPath(fieldID, contextID), map[string]any{"options": opts}); err != nil {
		verb := "enabling"
		if disabled {
			verb = "disabling"
		}
		return fmt.Errorf("error %s field options: %w", verb, err)
	}
	return nil
}

// MoveFieldOptions reorders the options with the given IDs, kept in the given order.
func (c *Client) MoveFieldOptions(ctx context.Context, fieldID, contextID string, ids []string, action MoveAction) error {
	if len(ids) == 0 {
		return invalidArgument("no option IDs to move")
	}
	if err := action.validate(); err != nil {
		return err
	}

	body := map[string]any{"customFieldOptionIds": ids}
	if action.After != "" {
		body["after"] = action.After
	} else {
		body["position"] = string(action.Position)
	}

	c.logger.Debug("moving field options", "field", fieldID, "context", contextID, "count", len(ids))
	if _, err := c.Put(ctx, optionsPath(fieldID, contextID)+"/move", body); err != nil {
		return fmt.Errorf("error moving field options: %w", err)
	}
	return nil
}

// DeleteFieldOption removes one option.
func (c *Client) DeleteFieldOption(ctx context.Context, fieldID, contextID, id string) error {
	if err := c.Delete(ctx, optionsPath(fieldID, contextID)+"/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("error deleting field option %s: %w", id, err)
	}
	return nil
}
