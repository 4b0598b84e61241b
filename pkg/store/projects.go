package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
)

const (
	projectPrefix = "project:"
	sessionPrefix = "session:"
)

// ProjectKey is the KV key of a project record.
func ProjectKey(id string) string { return projectPrefix + id }

// SessionKey is the KV key of a project's in-flight session.
func SessionKey(id string) string { return sessionPrefix + id }

// Projects reads and writes project records and their in-flight sessions
// on top of a KV.
type Projects struct {
	KV  KV
	Log *slog.Logger
}

func (r *Projects) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// IDs returns the ids of all stored projects.
func (r *Projects) IDs(ctx context.Context) ([]string, error) {
	keys, err := r.KV.List(ctx, projectPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, projectPrefix))
	}
	return ids, nil
}

// Load reads one project. Records written by an older release are upgraded
// and written back once.
func (r *Projects) Load(ctx context.Context, id string) (*project.Project, error) {
	key := ProjectKey(id)
	data, ok, err := r.KV.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	p := &project.Project{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	if p.Upgrade() {
		if err := r.Save(ctx, p); err != nil {
			r.log().Warn("upgraded project not saved", "project", id, "error", err)
		} else {
			r.log().Info("upgraded project", "project", id, "schema", p.Schema)
		}
	}
	return p, nil
}

// All loads every project. Records that fail to decode are logged and
// skipped.
func (r *Projects) All(ctx context.Context) ([]*project.Project, error) {
	ids, err := r.IDs(ctx)
	if err != nil {
		return nil, err
	}
	all := make([]*project.Project, 0, len(ids))
	for _, id := range ids {
		p, err := r.Load(ctx, id)
		if err != nil {
			r.log().Error("skipping project", "project", id, "error", err)
			continue
		}
		all = append(all, p)
	}
	return all, nil
}

// Save writes the whole project record.
func (r *Projects) Save(ctx context.Context, p *project.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: encode project %s: %w", p.ID, err)
	}
	return r.KV.Set(ctx, ProjectKey(p.ID), data)
}

// Delete removes a project and any in-flight session.
func (r *Projects) Delete(ctx context.Context, id string) error {
	if err := r.KV.Delete(ctx, SessionKey(id)); err != nil {
		return err
	}
	return r.KV.Delete(ctx, ProjectKey(id))
}

// Session returns the in-flight session of a project, idle when none.
func (r *Projects) Session(ctx context.Context, id string) (*session.Tracker, error) {
	data, ok, err := r.KV.Get(ctx, SessionKey(id))
	if err != nil {
		return nil, err
	}
	t := &session.Tracker{}
	if !ok {
		return t, nil
	}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("store: decode session %s: %w", id, err)
	}
	return t, nil
}

// SaveSession writes the in-flight session; an idle tracker clears it.
func (r *Projects) SaveSession(ctx context.Context, id string, t *session.Tracker) error {
	if t == nil || t.Current() == session.Idle {
		return r.KV.Delete(ctx, SessionKey(id))
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("store: encode session %s: %w", id, err)
	}
	return r.KV.Set(ctx, SessionKey(id), data)
}

// Watch forwards change events when the backend supports them.
func (r *Projects) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := r.KV.(Watcher)
	if !ok {
		return nil, fmt.Errorf("store: backend %T cannot be watched", r.KV)
	}
	return w.Watch(ctx)
}

// ProjectID returns the project id named by a KV key, if it is a project key.
func ProjectID(key string) (string, bool) {
	if !strings.HasPrefix(key, projectPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, projectPrefix), true
}
