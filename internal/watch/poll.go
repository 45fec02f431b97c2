package watch

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/gall/internal/foundation/errors"
	"git.home.luguber.info/inful/gall/internal/logfields"
)

type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

// poller compares stat snapshots of the watched paths on every tick.
type poller struct {
	mu    sync.Mutex
	paths []string
	last  map[string]fileStamp
}

func newPoller(paths map[string]struct{}) *poller {
	p := &poller{last: make(map[string]fileStamp, len(paths))}
	for path := range paths {
		p.paths = append(p.paths, path)
	}
	sort.Strings(p.paths)
	p.snapshot()
	return p
}

func stamp(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}

func (p *poller) snapshot() {
	for _, path := range p.paths {
		p.last[path] = stamp(path)
	}
}

// changed returns the first path whose stamp differs from the previous tick
// and records the new stamps. Removals are not changes.
func (p *poller) changed() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	first := ""
	for _, path := range p.paths {
		cur := stamp(path)
		prev := p.last[path]
		p.last[path] = cur
		if first == "" && cur.exists && cur != prev {
			first = path
		}
	}
	return first, first != ""
}

// Poll is Start for filesystems that deliver no change notifications: a
// scheduled job compares file stamps every interval and calls Notify on a
// difference. It blocks until ctx is done.
func (c *Coordinator) Poll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ferrors.ValidationError("poll interval must be positive").Build()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return ferrors.WatchError("cannot create poll scheduler").WithCause(err).Build()
	}
	defer c.Wait()

	p := newPoller(c.paths)
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if path, ok := p.changed(); ok {
				c.Notify(ctx, path)
			}
		}),
		gocron.WithName("poll-sources"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return ferrors.WatchError("cannot schedule source polling").WithCause(err).Build()
	}

	c.logger.Debug(ctx, "Polling sources", logfields.Op("poll"))
	s.Start()
	<-ctx.Done()
	if err := s.Shutdown(); err != nil {
		c.logger.Warn(ctx, "Poll scheduler shutdown failed", logfields.Error(err))
	}
	return nil
}
