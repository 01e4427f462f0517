package app

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"bondfeed/internal/cache"
)

// CacheList prints the entries of the durable cache.
func (a *App) CacheList(ctx context.Context) error {
	store, closeAll, err := a.openCacheOnly(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "cache is empty")
		return nil
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Key\tStored (UTC)\tAge\tBytes")
	now := time.Now()
	for _, e := range entries {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n",
			e.Key, e.StoredAt.UTC().Format(time.RFC3339), now.Sub(e.StoredAt).Round(time.Second), e.Size)
	}
	return writer.Flush()
}

// CacheClear drops every cached entry, in memory and durable.
func (a *App) CacheClear(ctx context.Context) error {
	store, closeAll, err := a.openCacheOnly(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	n := store.Len()
	store.Clear(ctx)
	fmt.Fprintf(a.Out, "cleared %d cache entries\n", n)
	return nil
}

func (a *App) openCacheOnly(ctx context.Context) (*cache.Store, func(), error) {
	if !a.Config.Cache.Durable {
		return nil, nil, fmt.Errorf("cache.durable is false; nothing persisted to inspect")
	}

	rt := &runtime{}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if closeStore != nil {
		rt.closers = append(rt.closers, closeStore)
	}

	cacheStore, err := a.openCache(ctx, store, rt)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	if err := cacheStore.Load(ctx); err != nil {
		rt.Close()
		return nil, nil, err
	}
	return cacheStore, rt.Close, nil
}
