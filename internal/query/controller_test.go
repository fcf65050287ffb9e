package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID string
}

func pageOf(ids ...string) []record {
	out := make([]record, 0, len(ids))
	for _, id := range ids {
		out = append(out, record{ID: id})
	}
	return out
}

func TestLoad_PopulatesFirstPage(t *testing.T) {
	var got Query
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		got = q
		return pageOf("a", "b"), 12, nil
	}

	c := NewController(fetch)
	snap, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, DefaultPageSize, got.PageSize)
	assert.Empty(t, got.Filters)

	assert.Equal(t, StatePopulated, snap.State)
	assert.Len(t, snap.Data, 2)
	assert.Equal(t, 12, snap.TotalItems)
	assert.False(t, snap.IsFiltered)
	assert.False(t, snap.ShowEmptyPrompt)
}

func TestRefresh_EmptyUnfilteredShowsPrompt(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return nil, 0, nil
	}

	c := NewController(fetch)
	snap, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateEmpty, snap.State)
	assert.True(t, snap.ShowEmptyPrompt)
	assert.NotNil(t, snap.Data)
	assert.Empty(t, snap.Data)
}

func TestRefresh_EmptyFilteredDoesNotShowPrompt(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return nil, 0, nil
	}

	c := NewController(fetch)
	snap, err := c.Refresh(context.Background(), Request{
		Filters:  Filters{"status": "2"},
		Page:     1,
		Filtered: true,
	})
	require.NoError(t, err)

	assert.Equal(t, StateEmpty, snap.State)
	assert.True(t, snap.IsFiltered)
	assert.False(t, snap.ShowEmptyPrompt)
}

func TestRefresh_FilteredPagingKeepsFilters(t *testing.T) {
	var queries []Query
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		queries = append(queries, q)
		return pageOf("a"), 25, nil
	}

	c := NewController(fetch)
	c.Refresh(context.Background(), Request{
		Filters:  Filters{"organizationId": "org-1"},
		Page:     1,
		Filtered: true,
	})
	c.Refresh(context.Background(), Request{Page: 2, Filtered: true, Filters: Filters{"organizationId": "org-1"}})

	require.Len(t, queries, 2)
	assert.Equal(t, "org-1", queries[1].Filters["organizationId"])
	assert.Equal(t, 2, queries[1].Page)
}

func TestRefresh_ClearedFilterRequestDropsStoredFilters(t *testing.T) {
	var queries []Query
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		queries = append(queries, q)
		return pageOf("a"), 25, nil
	}

	c := NewController(fetch)
	c.Refresh(context.Background(), Request{
		Filters:  Filters{"organizationId": "org-1"},
		Page:     1,
		Filtered: true,
	})
	snap, err := c.Refresh(context.Background(), Request{Page: 1, Filtered: true})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Empty(t, queries[1].Filters, "cleared filter controls must not resend old filters")
	assert.False(t, snap.IsFiltered)
}

func TestRefresh_UnfilteredPagingAfterResetSendsNoFilters(t *testing.T) {
	var queries []Query
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		queries = append(queries, q)
		return pageOf("a"), 25, nil
	}

	c := NewController(fetch)
	c.Refresh(context.Background(), Request{
		Filters:  Filters{"organizationId": "org-1"},
		Page:     1,
		Filtered: true,
	})
	c.Reset()
	snap, err := c.Refresh(context.Background(), Request{Page: 2})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Empty(t, queries[1].Filters, "a plain page change must not resend old filters")
	assert.Equal(t, 2, snap.Page)
	assert.False(t, snap.IsFiltered)
}

func TestRefresh_FetchErrorSetsErrorState(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return nil, 0, errors.New("backend unreachable")
	}

	c := NewController(fetch)
	snap, err := c.Load(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StateError, snap.State)
}

func TestRefresh_ErrorKeepsPreviousData(t *testing.T) {
	fail := false
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		if fail {
			return nil, 0, errors.New("backend unreachable")
		}
		return pageOf("a", "b"), 2, nil
	}

	c := NewController(fetch)
	c.Load(context.Background())

	fail = true
	snap, err := c.Refresh(context.Background(), Request{Page: 2})

	assert.Error(t, err)
	assert.Equal(t, StateError, snap.State)
	assert.Len(t, snap.Data, 2, "stale data is retained for the view to keep rendering")
}

func TestRefresh_StaleResponseIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})

	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		if q.Page == 1 {
			close(slowStarted)
			<-slowRelease
			return pageOf("stale"), 1, nil
		}
		return pageOf("fresh-a", "fresh-b"), 2, nil
	}

	c := NewController(fetch)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(context.Background(), Request{Page: 1})
	}()

	<-slowStarted
	snap, err := c.Refresh(context.Background(), Request{Page: 2})
	require.NoError(t, err)
	require.Equal(t, StatePopulated, snap.State)
	require.Len(t, snap.Data, 2)

	close(slowRelease)
	wg.Wait()

	final := c.Snapshot()
	assert.Equal(t, StatePopulated, final.State)
	assert.Len(t, final.Data, 2, "the superseded page-1 response must not overwrite page 2")
	assert.Equal(t, "fresh-a", final.Data[0].ID)
}

func TestReset_RestoresInitialState(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return pageOf("a"), 1, nil
	}

	c := NewController(fetch)
	c.Refresh(context.Background(), Request{
		Filters:  Filters{"status": "3"},
		Page:     4,
		PageSize: 50,
		Filtered: true,
	})
	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, DefaultPageSize, snap.PageSize)
	assert.False(t, snap.IsFiltered)
	assert.Empty(t, snap.Data)
}

func TestRegistry_SameKeySharesController(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return nil, 0, nil
	}

	r := NewRegistry(fetch)

	a := r.For("user-1:applicants")
	b := r.For("user-1:applicants")
	other := r.For("user-2:applicants")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
}

func TestRegistry_EvictsIdleControllers(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return nil, 0, nil
	}

	clock := time.Now()
	r := NewRegistry(fetch)
	r.now = func() time.Time { return clock }

	stale := r.For("user-1:applicants")

	clock = clock.Add(registryTTL + time.Minute)
	r.For("user-2:applicants")

	fresh := r.For("user-1:applicants")
	assert.NotSame(t, stale, fresh, "an idle controller must be evicted after the TTL")
	assert.Len(t, r.entries, 2)
}

func TestRegistry_CapsEntryCount(t *testing.T) {
	fetch := func(ctx context.Context, q Query) ([]record, int, error) {
		return nil, 0, nil
	}

	clock := time.Now()
	r := NewRegistry(fetch)
	r.maxEntries = 3
	r.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		r.For(fmt.Sprintf("user-%d:applicants", i))
		clock = clock.Add(time.Second)
	}

	first := r.For("user-0:applicants")
	clock = clock.Add(time.Second)
	r.For("user-9:applicants")

	require.Len(t, r.entries, 3, "the registry must never grow past its cap")
	_, present := r.entries["user-1:applicants"]
	assert.False(t, present, "the least recently used entry is dropped to admit a new key")
	require.Contains(t, r.entries, "user-0:applicants")
	assert.Same(t, first, r.entries["user-0:applicants"].controller)
}
