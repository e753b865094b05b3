package syncer

import (
	"context"
	"errors"
	"sync"

	"github.com/tgienger/taskdash/internal/store"
)

// FetchProjects replaces the project store with the server's list
func (s *Syncer) FetchProjects(ctx context.Context) error {
	return fetch(ctx, s, "syncer.FetchProjects", s.store.Projects.Collection, s.remote.ListProjects)
}

// FetchTasks replaces the task store with the server's list
func (s *Syncer) FetchTasks(ctx context.Context) error {
	return fetch(ctx, s, "syncer.FetchTasks", s.store.Tasks.Collection, s.remote.ListTasks)
}

// FetchMembers replaces the member list with the server's users
func (s *Syncer) FetchMembers(ctx context.Context) error {
	return fetch(ctx, s, "syncer.FetchMembers", s.store.Members, s.remote.ListUsers)
}

// FetchAll runs the three fetches concurrently and joins their errors
func (s *Syncer) FetchAll(ctx context.Context) error {
	fetches := []func(context.Context) error{s.FetchProjects, s.FetchTasks, s.FetchMembers}
	errs := make([]error, len(fetches))

	var wg sync.WaitGroup
	for i, f := range fetches {
		i, f := i, f
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f(ctx)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// fetch loads a collection under a fresh generation. On failure the stale
// contents stay and the error is kept on the collection for display. A
// result overtaken by a newer fetch or a confirmed mutation is dropped.
func fetch[T any](
	ctx context.Context,
	s *Syncer,
	op string,
	c *store.Collection[T],
	list func(context.Context, string) ([]T, error),
) error {
	log := s.log.WithField("operation", op)

	gen := c.BeginFetch()
	items, err := list(ctx, s.session.Token())
	if err != nil {
		if !c.SetErrAt(gen, err) {
			log.WithError(err).WithField("generation", gen).Debug("stale fetch failed")
			return err
		}
		log.WithError(err).Error("fetch failed, keeping stale data")
		return err
	}
	if !c.ReplaceAllAt(gen, items) {
		log.WithField("generation", gen).Debug("dropped stale fetch result")
		return nil
	}
	log.WithField("count", len(items)).Debug("fetched")
	return nil
}
