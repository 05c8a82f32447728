package feed

import (
	"context"
	"errors"
	"sync"
)

// ErrLikeInFlight is returned when a like toggle for the same item is
// still outstanding.
var ErrLikeInFlight = errors.New("like already in flight for item")

// ErrLoadInFlight is returned when a page load is still outstanding.
var ErrLoadInFlight = errors.New("page load already in flight")

// ViewState owns the in-memory feed: the accumulated item list, the paging
// cursor and the in-flight bookkeeping that keeps optimistic like toggles
// from racing each other.
//
// Like toggles apply immediately and roll back to the exact prior values
// when the network call fails. At most one mutation per item and one page
// load can be outstanding at a time, re-entrant calls are rejected without
// touching the network.
type ViewState struct {
	mu sync.Mutex

	api   API
	sort  string
	limit int

	items []Item
	index map[string]int

	liking  map[string]bool
	loading bool

	cursor  string
	started bool
	ended   bool

	// generation invalidates results of operations started before the last
	// Reset, their outcomes must not touch current state.
	generation uint64

	observers []func()
}

func NewViewState(api API, sort string, limit int) *ViewState {
	return &ViewState{
		api:    api,
		sort:   sort,
		limit:  limit,
		index:  make(map[string]int),
		liking: make(map[string]bool),
	}
}

// OnChange registers fn to run after every committed state change:
// optimistic apply, rollback, page append and reset. Callbacks run outside
// the state lock.
func (v *ViewState) OnChange(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.observers = append(v.observers, fn)
}

// Items returns a copy of the current item list.
func (v *ViewState) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()

	items := make([]Item, len(v.items))
	copy(items, v.items)

	return items
}

// Item returns the current state of a single item.
func (v *ViewState) Item(id string) (Item, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx, ok := v.index[id]
	if !ok {
		return Item{}, false
	}

	return v.items[idx], true
}

// Ended reports whether the feed's last page has been loaded.
func (v *ViewState) Ended() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.ended
}

// ToggleLike flips the like state of an item.
//
// The new state applies immediately. On success it stands, on failure the
// item reverts to its prior values and the error is returned for display.
// An unknown id is a benign no-op, the item scrolled out from under the
// caller. A toggle for an item whose previous toggle is still outstanding
// returns ErrLikeInFlight and issues no network call.
func (v *ViewState) ToggleLike(ctx context.Context, id string) error {
	v.mu.Lock()

	idx, ok := v.index[id]
	if !ok {
		v.mu.Unlock()
		return nil
	}

	if v.liking[id] {
		v.mu.Unlock()
		return ErrLikeInFlight
	}

	prev := v.items[idx]

	next := prev
	next.Liked = !prev.Liked
	if next.Liked {
		next.LikeCount = prev.LikeCount + 1
	} else {
		next.LikeCount = prev.LikeCount - 1
		if next.LikeCount < 0 {
			next.LikeCount = 0
		}
	}

	v.items[idx] = next
	v.liking[id] = true
	generation := v.generation
	liked := next.Liked

	v.mu.Unlock()
	v.notify()

	var err error
	if liked {
		err = v.api.Like(ctx, id)
	} else {
		err = v.api.Unlike(ctx, id)
	}

	v.mu.Lock()

	if generation != v.generation {
		// The feed was reset while the call was outstanding, the result
		// no longer applies to anything.
		v.mu.Unlock()
		return nil
	}

	delete(v.liking, id)

	if err == nil {
		v.mu.Unlock()
		return nil
	}

	if idx, ok := v.index[id]; ok {
		v.items[idx] = prev
	}

	v.mu.Unlock()
	v.notify()

	return err
}

// LoadNextPage appends the next page of the feed.
//
// Calling past the end of the stream is a silent no-op. A call while a
// load is outstanding returns ErrLoadInFlight without touching the
// network. Items whose id is already present are dropped on append, so a
// badly behaved backend cannot produce duplicate list entries.
func (v *ViewState) LoadNextPage(ctx context.Context) error {
	v.mu.Lock()

	if v.started && v.ended {
		v.mu.Unlock()
		return nil
	}

	if v.loading {
		v.mu.Unlock()
		return ErrLoadInFlight
	}

	v.loading = true
	cursor := v.cursor
	generation := v.generation
	sort, limit := v.sort, v.limit

	v.mu.Unlock()

	page, err := v.api.Page(ctx, sort, limit, cursor)

	v.mu.Lock()

	if generation != v.generation {
		// Reset happened mid-flight, discard whatever came back.
		v.mu.Unlock()
		return nil
	}

	v.loading = false

	if err != nil {
		v.mu.Unlock()
		return err
	}

	for _, item := range page.Items {
		if _, dup := v.index[item.ID]; dup {
			continue
		}
		v.index[item.ID] = len(v.items)
		v.items = append(v.items, item)
	}

	v.started = true
	v.cursor = page.NextCursor
	v.ended = page.NextCursor == ""

	v.mu.Unlock()
	v.notify()

	return nil
}

// Reset drops all loaded state and invalidates every outstanding
// operation. Their results complete as no-ops.
func (v *ViewState) Reset() {
	v.mu.Lock()

	v.items = nil
	v.index = make(map[string]int)
	v.liking = make(map[string]bool)
	v.loading = false
	v.cursor = ""
	v.started = false
	v.ended = false
	v.generation++

	v.mu.Unlock()
	v.notify()
}

func (v *ViewState) notify() {
	v.mu.Lock()
	observers := make([]func(), len(v.observers))
	copy(observers, v.observers)
	v.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}
