// Package storetest holds the behavioural contract every store.Store backend
// must satisfy. Backends call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeefy/prayerjournal/internal/store"
)

// Opener returns a ready store. It must register its own cleanup.
type Opener func(t *testing.T) store.Store

// Run exercises st against the shared contract. Person names are prefixed
// with a random token so backends sharing one database do not collide.
func Run(t *testing.T, open Opener) {
	t.Helper()

	t.Run("init schema is idempotent", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		require.NoError(t, st.InitSchema(ctx))
		require.NoError(t, st.InitSchema(ctx))
	})

	t.Run("list unknown person is empty", func(t *testing.T) {
		st := open(t)
		got, err := st.ListByPerson(context.Background(), unique("Grant"))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("insert returns stored row", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		person := unique("Kaitlin")
		before := time.Now().UTC().Truncate(time.Second)

		got, err := st.Insert(ctx, person, "Avery", "wisdom for the week")
		require.NoError(t, err)
		assert.Positive(t, got.ID)
		assert.Equal(t, person, got.PersonName)
		assert.Equal(t, "Avery", got.AuthorName)
		assert.Equal(t, "wisdom for the week", got.Content)
		assert.Equal(t, time.UTC, got.CreatedAt.Location())
		assert.Zero(t, got.CreatedAt.Nanosecond())
		assert.WithinDuration(t, before, got.CreatedAt, time.Minute)

		listed, err := st.ListByPerson(ctx, person)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, got.ID, listed[0].ID)
		assert.True(t, got.CreatedAt.Equal(listed[0].CreatedAt))
		assert.Equal(t, got.AuthorName, listed[0].AuthorName)
		assert.Equal(t, got.Content, listed[0].Content)
	})

	t.Run("list is ordered by creation", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		person := unique("Ricky")
		other := unique("Katie")

		var ids []int64
		for i := 0; i < 3; i++ {
			p, err := st.Insert(ctx, person, "Greg", fmt.Sprintf("prayer %d", i))
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}
		_, err := st.Insert(ctx, other, "Greg", "someone else")
		require.NoError(t, err)

		listed, err := st.ListByPerson(ctx, person)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		for i, p := range listed {
			assert.Equal(t, ids[i], p.ID)
			assert.Equal(t, fmt.Sprintf("prayer %d", i), p.Content)
			if i > 0 {
				assert.False(t, p.CreatedAt.Before(listed[i-1].CreatedAt), "created_at went backwards")
			}
		}
	})

	t.Run("count by person", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		grant := unique("Grant")
		mary := unique("Mary")
		untouched := unique("Hunter")

		for i := 0; i < 3; i++ {
			_, err := st.Insert(ctx, grant, "Maya", "steady")
			require.NoError(t, err)
		}
		_, err := st.Insert(ctx, mary, "Maya", "peace")
		require.NoError(t, err)

		counts, err := st.CountByPerson(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, counts[grant])
		assert.Equal(t, 1, counts[mary])
		_, ok := counts[untouched]
		assert.False(t, ok, "untouched person should be absent")
	})

	t.Run("concurrent inserts get distinct ids", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		person := unique("Forrest")
		const n = 16

		var wg sync.WaitGroup
		ids := make(chan int64, n)
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p, err := st.Insert(ctx, person, "Carissa", fmt.Sprintf("note %d", i))
				if err != nil {
					errs <- err
					return
				}
				ids <- p.ID
			}(i)
		}
		wg.Wait()
		close(ids)
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		seen := map[int64]bool{}
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)

		counts, err := st.CountByPerson(ctx)
		require.NoError(t, err)
		assert.Equal(t, n, counts[person])
	})

	t.Run("closed store errors", func(t *testing.T) {
		st := open(t)
		require.NoError(t, st.Close())
		_, err := st.Insert(context.Background(), unique("Savanna"), "Avery", "after close")
		assert.Error(t, err)
	})
}

func unique(name string) string {
	return name + "-" + uuid.NewString()[:8]
}
