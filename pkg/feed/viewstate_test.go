package feed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/fourtogenic/fourto/mocks"
	"github.com/fourtogenic/fourto/pkg/api"
	"github.com/fourtogenic/fourto/pkg/feed"
)

func loaded(t *testing.T, m *mocks.MockAPI, items []feed.Item, next string) *feed.ViewState {
	t.Helper()

	m.EXPECT().
		Page(gomock.Any(), "latest", 20, "").
		Return(&feed.Page{Items: items, NextCursor: next}, nil)

	state := feed.NewViewState(m, "latest", 20)

	err := state.LoadNextPage(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	return state
}

func TestViewState_ToggleLike_RollsBackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a", Liked: false, LikeCount: 3}}, "")

	m.EXPECT().Like(gomock.Any(), "a").Return(&api.NetworkError{Err: errors.New("timeout")})

	err := state.ToggleLike(context.Background(), "a")

	var netErr *api.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("got %v want a NetworkError", err)
	}

	item, ok := state.Item("a")
	if !ok {
		t.Fatal("item vanished")
	}

	if item.Liked || item.LikeCount != 3 {
		t.Errorf("after rollback: got liked=%v count=%d want liked=false count=3", item.Liked, item.LikeCount)
	}
}

func TestViewState_ToggleLike_CommitsOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a", Liked: false, LikeCount: 3}}, "")

	m.EXPECT().Like(gomock.Any(), "a").Return(nil)

	err := state.ToggleLike(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}

	item, _ := state.Item("a")
	if !item.Liked || item.LikeCount != 4 {
		t.Errorf("after commit: got liked=%v count=%d want liked=true count=4", item.Liked, item.LikeCount)
	}
}

func TestViewState_ToggleLike_OptimisticBeforeResolution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a", Liked: false, LikeCount: 3}}, "")

	m.EXPECT().Like(gomock.Any(), "a").DoAndReturn(func(context.Context, string) error {
		item, _ := state.Item("a")
		if !item.Liked || item.LikeCount != 4 {
			t.Errorf("mid-flight: got liked=%v count=%d want liked=true count=4", item.Liked, item.LikeCount)
		}
		return nil
	})

	err := state.ToggleLike(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
}

func TestViewState_ToggleLike_Unlike(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a", Liked: true, LikeCount: 4}}, "")

	m.EXPECT().Unlike(gomock.Any(), "a").Return(nil)

	err := state.ToggleLike(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}

	item, _ := state.Item("a")
	if item.Liked || item.LikeCount != 3 {
		t.Errorf("got liked=%v count=%d want liked=false count=3", item.Liked, item.LikeCount)
	}
}

func TestViewState_ToggleLike_CountNeverNegative(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a", Liked: true, LikeCount: 0}}, "")

	m.EXPECT().Unlike(gomock.Any(), "a").Return(nil)

	err := state.ToggleLike(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}

	item, _ := state.Item("a")
	if item.LikeCount != 0 {
		t.Errorf("got count %d want 0", item.LikeCount)
	}
}

func TestViewState_ToggleLike_UnknownIDIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a"}}, "")

	// No Like/Unlike expectation: the item scrolled out, nothing may be
	// issued.
	err := state.ToggleLike(context.Background(), "gone")
	if err != nil {
		t.Errorf("got %v want nil", err)
	}
}

func TestViewState_ToggleLike_RejectsReentrantToggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a", LikeCount: 3}}, "")

	started := make(chan struct{})
	release := make(chan struct{})

	m.EXPECT().Like(gomock.Any(), "a").DoAndReturn(func(context.Context, string) error {
		close(started)
		<-release
		return nil
	})

	first := make(chan error, 1)
	go func() {
		first <- state.ToggleLike(context.Background(), "a")
	}()

	<-started

	// Second toggle while the first is outstanding: rejected, no second
	// network mutation (the single Like expectation above enforces that).
	err := state.ToggleLike(context.Background(), "a")
	if !errors.Is(err, feed.ErrLikeInFlight) {
		t.Errorf("got %v want ErrLikeInFlight", err)
	}

	close(release)

	if err := <-first; err != nil {
		t.Fatal(err)
	}

	item, _ := state.Item("a")
	if !item.Liked || item.LikeCount != 4 {
		t.Errorf("got liked=%v count=%d want liked=true count=4", item.Liked, item.LikeCount)
	}
}

func TestViewState_LoadNextPage_AppendsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)

	m.EXPECT().
		Page(gomock.Any(), "latest", 2, "").
		Return(&feed.Page{Items: []feed.Item{{ID: "a"}, {ID: "b"}}, NextCursor: "c2"}, nil)
	m.EXPECT().
		Page(gomock.Any(), "latest", 2, "c2").
		Return(&feed.Page{Items: []feed.Item{{ID: "c"}}, NextCursor: ""}, nil)

	state := feed.NewViewState(m, "latest", 2)

	for i := 0; i < 2; i++ {
		if err := state.LoadNextPage(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	items := state.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items want 3", len(items))
	}

	for i, want := range []string{"a", "b", "c"} {
		if items[i].ID != want {
			t.Errorf("item %d: got %q want %q", i, items[i].ID, want)
		}
	}

	if !state.Ended() {
		t.Error("stream should have ended")
	}
}

func TestViewState_LoadNextPage_NoopAfterEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)
	state := loaded(t, m, []feed.Item{{ID: "a"}}, "")

	// Stream ended, no further Page expectation: another load must not
	// touch the network or the state.
	err := state.LoadNextPage(context.Background())
	if err != nil {
		t.Errorf("got %v want nil", err)
	}

	if got := len(state.Items()); got != 1 {
		t.Errorf("got %d items want 1", got)
	}
}

func TestViewState_LoadNextPage_RejectsConcurrentLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	m.EXPECT().
		Page(gomock.Any(), "latest", 20, "").
		DoAndReturn(func(context.Context, string, int, string) (*feed.Page, error) {
			close(started)
			<-release
			return &feed.Page{NextCursor: ""}, nil
		})

	state := feed.NewViewState(m, "latest", 20)

	done := make(chan error, 1)
	go func() {
		done <- state.LoadNextPage(context.Background())
	}()

	<-started

	err := state.LoadNextPage(context.Background())
	if !errors.Is(err, feed.ErrLoadInFlight) {
		t.Errorf("got %v want ErrLoadInFlight", err)
	}

	close(release)

	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestViewState_LoadNextPage_DropsDuplicateIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)

	m.EXPECT().
		Page(gomock.Any(), "latest", 20, "").
		Return(&feed.Page{Items: []feed.Item{{ID: "a"}, {ID: "b"}}, NextCursor: "c2"}, nil)
	m.EXPECT().
		Page(gomock.Any(), "latest", 20, "c2").
		Return(&feed.Page{Items: []feed.Item{{ID: "b"}, {ID: "c"}}, NextCursor: ""}, nil)

	state := feed.NewViewState(m, "latest", 20)

	for i := 0; i < 2; i++ {
		if err := state.LoadNextPage(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	items := state.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items want 3", len(items))
	}
}

func TestViewState_Reset_DiscardsInFlightLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	m.EXPECT().
		Page(gomock.Any(), "latest", 20, "").
		DoAndReturn(func(context.Context, string, int, string) (*feed.Page, error) {
			close(started)
			<-release
			return &feed.Page{Items: []feed.Item{{ID: "stale"}}, NextCursor: "c2"}, nil
		})

	state := feed.NewViewState(m, "latest", 20)

	done := make(chan error, 1)
	go func() {
		done <- state.LoadNextPage(context.Background())
	}()

	<-started
	state.Reset()
	close(release)

	if err := <-done; err != nil {
		t.Errorf("discarded load: got %v want nil", err)
	}

	if got := len(state.Items()); got != 0 {
		t.Errorf("stale page applied after reset: got %d items want 0", got)
	}
}

func TestViewState_OnChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockAPI(ctrl)

	m.EXPECT().
		Page(gomock.Any(), "latest", 20, "").
		Return(&feed.Page{Items: []feed.Item{{ID: "a"}}, NextCursor: ""}, nil)
	m.EXPECT().Like(gomock.Any(), "a").Return(errors.New("nope"))

	state := feed.NewViewState(m, "latest", 20)

	changes := 0
	state.OnChange(func() {
		changes++
	})

	if err := state.LoadNextPage(context.Background()); err != nil {
		t.Fatal(err)
	}

	_ = state.ToggleLike(context.Background(), "a")

	// One for the page, one for the optimistic apply, one for the
	// rollback.
	if changes != 3 {
		t.Errorf("got %d change notifications want 3", changes)
	}
}
