package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_SubmissionsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	answers := map[string]any{"tags": []any{"a"}}
	require.NoError(t, store.SaveSubmission(ctx, domain.Submission{ID: "s1", IntakeID: "i", Answers: answers}))
	answers["tags"].([]any)[0] = "mutated"

	subs, err := store.ListSubmissions(ctx, "i")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, subs[0].Answers["tags"])
}

func TestLoader(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewLoader(
		domain.Draft{IntakeID: "b"},
		domain.Draft{IntakeID: "a", Metadata: domain.Metadata{Title: "First"}},
	)

	d, err := loader.LoadDraft(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "First", d.Metadata.Title)

	_, err = loader.LoadDraft(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrIntakeNotFound)

	all, err := loader.LoadDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].IntakeID)
	assert.Equal(t, "b", all[1].IntakeID)
}

func TestLocker_Exclusive(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()

	var (
		mu      sync.Mutex
		holders int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "intake", time.Second)
			require.NoError(t, err)

			mu.Lock()
			holders++
			maxSeen = max(maxSeen, holders)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			_ = unlock(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestLocker_ContextCancel(t *testing.T) {
	locker := memory.NewLocker()
	unlock, err := locker.Lock(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
