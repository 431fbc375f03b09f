package lock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathsResolver resolves pids from a map, unknown pids fail like an exited process.
func pathsResolver(paths map[int]string) ResolverFunc {
	return func(pid int) (string, error) {
		p, ok := paths[pid]
		if !ok {
			return "", errors.New("no such process")
		}
		return p, nil
	}
}

func TestProcess_Same(t *testing.T) {
	a := Process{PID: 10, ExecPath: "/bin/a", Resolved: true}
	tests := []struct {
		name string
		b    Process
		want bool
	}{
		{name: "identical", b: Process{PID: 10, ExecPath: "/bin/a", Resolved: true}, want: true},
		{name: "name ignored", b: Process{PID: 10, Name: "other", ExecPath: "/bin/a", Resolved: true}, want: true},
		{name: "pid reused", b: Process{PID: 10, ExecPath: "/bin/b", Resolved: true}, want: false},
		{name: "different pid", b: Process{PID: 11, ExecPath: "/bin/a", Resolved: true}, want: false},
		{name: "unresolved", b: Process{PID: 10}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Same(tc.b))
			assert.Equal(t, tc.want, tc.b.Same(a))
		})
	}

	u := Process{PID: 5}
	assert.False(t, u.Same(u), "unresolved process never matches, even itself")
}

func TestProcess_String(t *testing.T) {
	assert.Equal(t, "vim (pid 42, /usr/bin/vim)", Process{PID: 42, Name: "vim", ExecPath: "/usr/bin/vim", Resolved: true}.String())
	assert.Equal(t, "? (pid 7, path unknown)", Process{PID: 7}.String())
}

func TestCollector_Dedup(t *testing.T) {
	c := NewCollector(pathsResolver(map[int]string{1: "/bin/a", 2: "/bin/b"}))
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, []Holder{{PID: 1, Name: "a"}, {PID: 2, Name: "b"}}))
	require.NoError(t, c.Add(ctx, []Holder{{PID: 2, Name: "b"}, {PID: 1, Name: "a"}}))
	require.NoError(t, c.Add(ctx, nil))

	set := c.Set()
	assert.Equal(t, []int{1, 2}, set.PIDs(), "insertion order kept, duplicates dropped")
	assert.Equal(t, "/bin/a", set[0].ExecPath)
	assert.True(t, set[0].Resolved)
}

func TestCollector_PidReuseKeepsBoth(t *testing.T) {
	paths := map[int]string{7: "/bin/first"}
	c := NewCollector(pathsResolver(paths))
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, []Holder{{PID: 7}}))
	paths[7] = "/bin/second" // pid recycled by another executable between probes
	require.NoError(t, c.Add(ctx, []Holder{{PID: 7}}))

	set := c.Set()
	require.Len(t, set, 2)
	assert.Equal(t, "/bin/first", set[0].ExecPath)
	assert.Equal(t, "/bin/second", set[1].ExecPath)
}

func TestCollector_UnresolvedKeptAndNeverMerged(t *testing.T) {
	c := NewCollector(pathsResolver(map[int]string{}))
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, []Holder{{PID: 3, Name: "ghost"}}))
	require.NoError(t, c.Add(ctx, []Holder{{PID: 3, Name: "ghost"}}))

	set := c.Set()
	require.Len(t, set, 2)
	assert.False(t, set[0].Resolved)
	assert.Equal(t, "ghost", set[0].Name)
}

func TestCollector_EmptyPathTreatedAsUnresolved(t *testing.T) {
	c := NewCollector(pathsResolver(map[int]string{4: ""}))
	require.NoError(t, c.Add(context.Background(), []Holder{{PID: 4}, {PID: 4}}))
	assert.Len(t, c.Set(), 2)
}

func TestCollector_SetIsCopy(t *testing.T) {
	c := NewCollector(pathsResolver(map[int]string{1: "/bin/a"}))
	require.NoError(t, c.Add(context.Background(), []Holder{{PID: 1}}))

	set := c.Set()
	set[0].PID = 99
	assert.Equal(t, 1, c.Set()[0].PID)
}

func TestCollector_Canceled(t *testing.T) {
	c := NewCollector(pathsResolver(map[int]string{1: "/bin/a", 2: "/bin/b"}))
	require.NoError(t, c.Add(context.Background(), []Holder{{PID: 1}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Add(ctx, []Holder{{PID: 2}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, c.Set(), 1, "canceled candidate not added")
}

func TestNewProber(t *testing.T) {
	p, err := NewProber(KindNone, "")
	require.NoError(t, err)
	assert.IsType(t, None{}, p)

	p, err = NewProber(KindLsof, "my-lsof")
	require.NoError(t, err)
	require.IsType(t, &Lsof{}, p)
	assert.Equal(t, "my-lsof", p.(*Lsof).Command)

	p, err = NewProber(KindAuto, "")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewProber("bogus", "")
	require.Error(t, err)
}

func TestNone_Probe(t *testing.T) {
	holders, err := None{}.Probe(context.Background(), "/anything")
	require.NoError(t, err)
	assert.Empty(t, holders)
}
