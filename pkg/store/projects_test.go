package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
)

const legacyProject = `{"id":"1718000000000","title":"Hat","patternText":"Cast on\nRow 1: k\nRow 2: p",
"rows":[{"number":null,"text":"Cast on","originalIndex":0},{"number":1,"text":"Row 1: k","originalIndex":1},{"number":2,"text":"Row 2: p","originalIndex":2}],
"repeatSections":[],"currentRow":0,"totalTime":0,"sessions":[],"activeRepeat":null}`

type countingKV struct {
	*Memory
	sets int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.Memory.Set(ctx, key, value)
}

func TestProjectsSaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := &Projects{KV: NewMemory()}
	p := project.New("Scarf", "Row 1: knit\nRow 2: purl", 0, time.Hour, time.Now())
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Cursor, got.Cursor)
	assert.Equal(t, time.Hour, got.TotalTime)

	ids, err := repo.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, ids)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Load(ctx, p.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProjectsMigrateOnce(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{Memory: NewMemory()}
	require.NoError(t, kv.Memory.Set(ctx, ProjectKey("1718000000000"), []byte(legacyProject)))
	repo := &Projects{KV: kv}

	p, err := repo.Load(ctx, "1718000000000")
	require.NoError(t, err)
	assert.Equal(t, cursor.PreStart{}, p.Cursor)
	assert.Equal(t, 1, kv.sets)

	raw, _, _ := kv.Get(ctx, ProjectKey("1718000000000"))
	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, float64(-1), stored["currentRowIndex"])

	_, err = repo.Load(ctx, "1718000000000")
	require.NoError(t, err)
	assert.Equal(t, 1, kv.sets, "second load must not write")
}

func TestProjectsAllSkipsBrokenRecords(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := &Projects{KV: kv}
	p := project.New("Scarf", "Row 1: knit", 0, 0, time.Now())
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, kv.Set(ctx, ProjectKey("broken"), []byte("{")))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, p.ID, all[0].ID)
}

func TestProjectsSession(t *testing.T) {
	ctx := context.Background()
	repo := &Projects{KV: NewMemory()}

	tr, err := repo.Session(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, session.Idle, tr.Current())

	require.NoError(t, tr.Start())
	tr.CountRow(2)
	require.NoError(t, repo.SaveSession(ctx, "p1", tr))

	again, err := repo.Session(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, session.Running, again.Current())
	assert.Equal(t, 2, again.Rows)

	_, err = again.End()
	require.NoError(t, err)
	require.NoError(t, repo.SaveSession(ctx, "p1", again))
	_, ok, err := repo.KV.Get(ctx, SessionKey("p1"))
	require.NoError(t, err)
	assert.False(t, ok)
}
