package reconcile

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncerFunc func() (*Report, error)

func (f syncerFunc) SyncAll() (*Report, error) { return f() }

func TestRunnerStoresLastReport(t *testing.T) {
	db := setupTestDB(t)
	dir := &fakeDirectory{entries: []entry{
		{attrs: user("alice", 512, groupLibrarians)},
		{err: errors.New("entry CN=Broken has no account name")},
	}}

	r := NewRunner(newTestEngine(db, dir), db)

	_, err := r.LastReport()
	require.ErrorIs(t, err, ErrNoReport)

	report, err := r.Run()
	require.NoError(t, err)

	last, err := r.LastReport()
	require.NoError(t, err)
	assert.Equal(t, report.TotalUsers, last.TotalUsers)
	assert.Equal(t, report.NewUsers, last.NewUsers)
	assert.Equal(t, report.Errors, last.Errors)
	assert.Equal(t, report.ErrorDetails, last.ErrorDetails)
	assert.True(t, report.StartedAt.Equal(last.StartedAt))
}

func TestRunnerFailureKeepsPreviousReport(t *testing.T) {
	db := setupTestDB(t)

	calls := 0
	r := NewRunner(syncerFunc(func() (*Report, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("directory down")
		}

		return &Report{TotalUsers: 7, NewUsers: 7, ErrorDetails: []string{}}, nil
	}), db)

	_, err := r.Run()
	require.NoError(t, err)

	_, err = r.Run()
	require.Error(t, err)

	last, err := r.LastReport()
	require.NoError(t, err)
	assert.Equal(t, 7, last.TotalUsers)
}

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	db := setupTestDB(t)

	started := make(chan struct{})
	release := make(chan struct{})

	r := NewRunner(syncerFunc(func() (*Report, error) {
		close(started)
		<-release

		return &Report{ErrorDetails: []string{}}, nil
	}), db)

	var (
		wg       sync.WaitGroup
		firstErr error
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		_, firstErr = r.Run()
	}()

	<-started

	_, err := r.Run()
	require.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
}

func TestScheduler(t *testing.T) {
	db := setupTestDB(t)
	r := NewRunner(syncerFunc(func() (*Report, error) { return &Report{}, nil }), db)

	_, err := NewScheduler(r, "every tuesday")
	require.Error(t, err)

	s, err := NewScheduler(r, "@every 1h")
	require.NoError(t, err)

	s.Start()
	s.Stop()
}

func TestSchedulerRunLogsOutcomes(t *testing.T) {
	db := setupTestDB(t)

	results := []error{nil, errors.New("boom"), ErrSyncInProgress}
	i := 0

	r := NewRunner(syncerFunc(func() (*Report, error) {
		err := results[i]
		i++

		if err != nil {
			return nil, err
		}

		return &Report{ErrorDetails: []string{}}, nil
	}), db)

	s, err := NewScheduler(r, "@daily")
	require.NoError(t, err)

	for range results {
		s.run()
	}

	assert.Equal(t, len(results), i)
}
