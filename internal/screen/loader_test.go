package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/TWRT/taskflow-client/internal/client"
	"github.com/TWRT/taskflow-client/internal/models"
)

func TestLoaderMissingToken(t *testing.T) {
	api := newFakeAPI()
	home := NewHomeScreen(api, tokenOf(""), quietLog())

	err := home.Load(context.Background())
	if !errors.Is(err, client.ErrMissingToken) {
		t.Fatalf("Load error = %v, want ErrMissingToken", err)
	}
	if n := api.total(); n != 0 {
		t.Errorf("expected no transport calls, got %d", n)
	}

	st := home.Snapshot()
	if st.Phase != PhaseError {
		t.Errorf("phase = %v, want error", st.Phase)
	}
	if st.Error != MsgAuthRequired {
		t.Errorf("error = %q, want %q", st.Error, MsgAuthRequired)
	}
}

func TestLoaderTokenProviderError(t *testing.T) {
	api := newFakeAPI()
	tokens := client.TokenFunc(func(context.Context) (string, error) {
		return "", errBoom
	})
	home := NewHomeScreen(api, tokens, quietLog())

	if err := home.Load(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Load error = %v, want errBoom", err)
	}
	if api.total() != 0 {
		t.Errorf("expected no transport calls, got %d", api.total())
	}
	if st := home.Snapshot(); st.Error != MsgAuthRequired {
		t.Errorf("error = %q, want %q", st.Error, MsgAuthRequired)
	}
}

func TestLoaderLoad(t *testing.T) {
	t.Run("success stores canonical data", func(t *testing.T) {
		api := newFakeAPI()
		api.visible = models.TasksResponse{PersonalTasks: []models.Task{{ID: 1, Title: "a"}}}
		home := NewHomeScreen(api, tokenOf("tok"), quietLog())

		if st := home.Snapshot(); st.Phase != PhaseIdle {
			t.Fatalf("initial phase = %v, want idle", st.Phase)
		}
		if err := home.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		st := home.Snapshot()
		if st.Phase != PhaseReady || !st.HasData {
			t.Fatalf("phase = %v hasData = %v, want ready with data", st.Phase, st.HasData)
		}
		if len(st.Data.PersonalTasks) != 1 {
			t.Errorf("expected 1 personal task, got %d", len(st.Data.PersonalTasks))
		}
		if api.lastToken != "tok" {
			t.Errorf("token = %q, want tok", api.lastToken)
		}
	})

	t.Run("failure shows generic message", func(t *testing.T) {
		api := newFakeAPI()
		api.listVisibleErr = &client.APIError{StatusCode: 500, Method: "GET", Path: "/tasks/user_visible_tasks/", Message: "db exploded"}
		home := NewHomeScreen(api, tokenOf("tok"), quietLog())

		err := home.Load(context.Background())
		if code, ok := client.StatusCode(err); !ok || code != 500 {
			t.Fatalf("Load error = %v, want APIError 500", err)
		}
		st := home.Snapshot()
		if st.Phase != PhaseError {
			t.Errorf("phase = %v, want error", st.Phase)
		}
		if st.Error != "Failed to load tasks" {
			t.Errorf("error = %q, want generic message", st.Error)
		}
	})

	t.Run("retry recovers", func(t *testing.T) {
		api := newFakeAPI()
		api.listVisibleErr = errBoom
		home := NewHomeScreen(api, tokenOf("tok"), quietLog())
		_ = home.Load(context.Background())

		api.mu.Lock()
		api.listVisibleErr = nil
		api.mu.Unlock()

		if err := home.Retry(context.Background()); err != nil {
			t.Fatalf("Retry failed: %v", err)
		}
		st := home.Snapshot()
		if st.Phase != PhaseReady || st.Error != "" {
			t.Errorf("phase = %v error = %q, want ready without error", st.Phase, st.Error)
		}
		if api.count("ListVisibleTasks") != 2 {
			t.Errorf("expected 2 fetches, got %d", api.count("ListVisibleTasks"))
		}
	})
}

func TestLoaderRefreshIsolation(t *testing.T) {
	api := newFakeAPI()
	api.visible = models.TasksResponse{PersonalTasks: []models.Task{{ID: 7}}}
	home := NewHomeScreen(api, tokenOf("tok"), quietLog())
	if err := home.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	api.mu.Lock()
	api.listVisibleErr = errBoom
	api.mu.Unlock()

	if err := home.Refresh(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Refresh error = %v, want errBoom", err)
	}

	st := home.Snapshot()
	if st.Phase != PhaseReady {
		t.Errorf("phase = %v, want ready", st.Phase)
	}
	if !st.HasData || len(st.Data.PersonalTasks) != 1 || st.Data.PersonalTasks[0].ID != 7 {
		t.Errorf("previous data was not kept: %+v", st.Data)
	}
	if st.RefreshError != "Failed to load tasks" {
		t.Errorf("refresh error = %q", st.RefreshError)
	}
	if st.Error != "" {
		t.Errorf("screen error = %q, want empty", st.Error)
	}
	if st.Refreshing {
		t.Error("still refreshing after failure")
	}

	t.Run("successful refresh clears the indicator", func(t *testing.T) {
		api.mu.Lock()
		api.listVisibleErr = nil
		api.visible = models.TasksResponse{PersonalTasks: []models.Task{{ID: 7}, {ID: 8}}}
		api.mu.Unlock()

		if err := home.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		st := home.Snapshot()
		if st.RefreshError != "" || len(st.Data.PersonalTasks) != 2 {
			t.Errorf("unexpected state after refresh: %+v", st)
		}
	})
}

func TestLoaderRefreshMissingTokenKeepsData(t *testing.T) {
	token := "tok"
	api := newFakeAPI()
	api.visible = models.TasksResponse{PersonalTasks: []models.Task{{ID: 1}}}
	home := NewHomeScreen(api, client.TokenFunc(func(context.Context) (string, error) {
		return token, nil
	}), quietLog())
	if err := home.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	token = ""
	if err := home.Refresh(context.Background()); !errors.Is(err, client.ErrMissingToken) {
		t.Fatalf("Refresh error = %v, want ErrMissingToken", err)
	}
	st := home.Snapshot()
	if st.Phase != PhaseReady || !st.HasData {
		t.Errorf("data lost on refresh without token: %+v", st)
	}
	if st.RefreshError != MsgAuthRequired {
		t.Errorf("refresh error = %q", st.RefreshError)
	}
	if api.count("ListVisibleTasks") != 1 {
		t.Errorf("expected no fetch without token, got %d", api.count("ListVisibleTasks"))
	}
}

func TestLoaderRefreshWithoutDataActsAsLoad(t *testing.T) {
	api := newFakeAPI()
	api.listVisibleErr = errBoom
	home := NewHomeScreen(api, tokenOf("tok"), quietLog())

	_ = home.Refresh(context.Background())
	st := home.Snapshot()
	if st.Phase != PhaseError || st.Error == "" {
		t.Errorf("phase = %v error = %q, want error state", st.Phase, st.Error)
	}
}

func TestLoaderDropsStaleResults(t *testing.T) {
	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	started := make(chan string, 2)
	calls := 0
	fetch := func(ctx context.Context, token string) (string, error) {
		calls++
		name := "first"
		if calls == 2 {
			name = "second"
		}
		started <- name
		<-release[name]
		return name, nil
	}
	l := NewLoader(tokenOf("tok"), fetch, "Failed to load", quietLog())

	firstErr := make(chan error, 1)
	go func() { firstErr <- l.Load(context.Background()) }()
	<-started

	secondErr := make(chan error, 1)
	go func() { secondErr <- l.Retry(context.Background()) }()
	<-started

	close(release["second"])
	if err := <-secondErr; err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	close(release["first"])
	if err := <-firstErr; !errors.Is(err, ErrStaleResult) {
		t.Fatalf("first fetch error = %v, want ErrStaleResult", err)
	}

	if data, _ := l.Data(); data != "second" {
		t.Errorf("data = %q, want the newest result", data)
	}
}

func TestLoaderRetryDuringRefreshClearsRefreshing(t *testing.T) {
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})
	calls := 0
	fetch := func(ctx context.Context, token string) (int, error) {
		calls++
		switch calls {
		case 2:
			close(refreshStarted)
			<-releaseRefresh
			return 2, nil
		default:
			return calls, nil
		}
	}
	l := NewLoader(tokenOf("tok"), fetch, "Failed to load", quietLog())
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	refreshErr := make(chan error, 1)
	go func() { refreshErr <- l.Refresh(context.Background()) }()
	<-refreshStarted
	if !l.Snapshot().Refreshing {
		t.Fatal("expected refreshing while the refresh is in flight")
	}

	if err := l.Retry(context.Background()); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	close(releaseRefresh)
	if err := <-refreshErr; !errors.Is(err, ErrStaleResult) {
		t.Fatalf("refresh error = %v, want ErrStaleResult", err)
	}

	st := l.Snapshot()
	if st.Refreshing {
		t.Error("refreshing still set after every fetch finished")
	}
	if st.Phase != PhaseReady || st.Data != 3 {
		t.Errorf("state = %v/%d, want ready with the retry's data", st.Phase, st.Data)
	}
}

func TestLoaderClose(t *testing.T) {
	t.Run("load after close", func(t *testing.T) {
		api := newFakeAPI()
		home := NewHomeScreen(api, tokenOf("tok"), quietLog())
		home.Close()
		if err := home.Load(context.Background()); !errors.Is(err, ErrClosed) {
			t.Fatalf("Load error = %v, want ErrClosed", err)
		}
		if api.total() != 0 {
			t.Errorf("expected no calls after close, got %d", api.total())
		}
	})

	t.Run("result after close is dropped", func(t *testing.T) {
		var l *Loader[int]
		fetch := func(ctx context.Context, token string) (int, error) {
			l.Close()
			return 42, nil
		}
		l = NewLoader(tokenOf("tok"), fetch, "Failed to load", quietLog())
		if err := l.Load(context.Background()); !errors.Is(err, ErrClosed) {
			t.Fatalf("Load error = %v, want ErrClosed", err)
		}
		if _, ok := l.Data(); ok {
			t.Error("data written after close")
		}
	})
}

func TestLoaderMutate(t *testing.T) {
	l := NewLoader(tokenOf("tok"), func(context.Context, string) ([]int, error) {
		return []int{1, 2}, nil
	}, "Failed to load", quietLog())

	if err := l.Mutate(func(*[]int) {}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Mutate before load = %v, want ErrNotReady", err)
	}
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := l.Mutate(func(v *[]int) { *v = append(*v, 3) }); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if data, _ := l.Data(); len(data) != 3 {
		t.Errorf("data = %v, want 3 items", data)
	}
}
