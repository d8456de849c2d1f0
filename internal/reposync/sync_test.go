package reposync_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"winbootstrap/internal/execx"
	"winbootstrap/internal/logging"
	"winbootstrap/internal/reposync"
	"winbootstrap/internal/testsupport"
)

const remote = "https://example.com/org/windows-ansible.git"

// initRepo creates a repository with one commit and returns its hash.
func initRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	testsupport.WriteFile(t, filepath.Join(dir, "site.yml"), "- hosts: localhost\n")
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("site.yml"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(1_700_000_000, 0)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash.String()
}

func newSyncer(t *testing.T, host *testsupport.FakeHost, fake *execx.FakeExecutor) *reposync.Syncer {
	t.Helper()
	return reposync.NewSyncer(testsupport.NewConfig(t), host, fake, logging.NewNop())
}

func TestSyncWithoutGitDoesNothing(t *testing.T) {
	fake := &execx.FakeExecutor{}
	target := filepath.Join(t.TempDir(), "repo")

	state := newSyncer(t, testsupport.NewFakeHost(), fake).Sync(context.Background(), remote, target)
	if state.Present || state.Action != reposync.ActionNone || state.Error == "" {
		t.Fatalf("expected NONE with error, got %+v", state)
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("expected no invocations, got %v", fake.Lines())
	}
}

func TestSyncClonesMissingTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "Documents", "windows-ansible")
	var head string
	fake := &execx.FakeExecutor{Handler: func(call execx.ExecCall) execx.ExecResponse {
		if _, err := os.Stat(filepath.Dir(target)); err != nil {
			return execx.ExecResponse{Err: errors.New("parent missing")}
		}
		head = initRepo(t, call.Args[2])
		return execx.ExecResponse{}
	}}

	state := newSyncer(t, testsupport.NewFakeHost("git"), fake).Sync(context.Background(), remote, target)
	if !state.Present || state.Action != reposync.ActionClone || state.Error != "" {
		t.Fatalf("expected successful clone, got %+v", state)
	}
	if got := fake.Lines(); len(got) != 1 || got[0] != "git clone "+remote+" "+target {
		t.Fatalf("unexpected calls %v", got)
	}
	if state.Head != head || state.Branch != "master" {
		t.Fatalf("expected head %s on master, got %s on %q", head, state.Head, state.Branch)
	}
}

func TestSyncCloneFailure(t *testing.T) {
	target := filepath.Join(t.TempDir(), "repo")
	fake := &execx.FakeExecutor{Handler: func(execx.ExecCall) execx.ExecResponse {
		return execx.ExecResponse{Err: errors.New("exit status 128")}
	}}

	state := newSyncer(t, testsupport.NewFakeHost("git"), fake).Sync(context.Background(), remote, target)
	if state.Present || state.Action != reposync.ActionClone {
		t.Fatalf("expected failed clone, got %+v", state)
	}
	if !strings.Contains(state.Error, "exit status 128") {
		t.Fatalf("unexpected error %q", state.Error)
	}
}

func TestSyncPullsExistingTarget(t *testing.T) {
	target := t.TempDir()
	head := initRepo(t, target)
	fake := &execx.FakeExecutor{}

	state := newSyncer(t, testsupport.NewFakeHost("git"), fake).Sync(context.Background(), remote, target)
	if !state.Present || state.Action != reposync.ActionPull || state.Error != "" {
		t.Fatalf("expected successful pull, got %+v", state)
	}
	if got := fake.Lines(); len(got) != 1 || got[0] != "git -C "+target+" pull origin main" {
		t.Fatalf("unexpected calls %v", got)
	}
	if state.Head != head {
		t.Fatalf("expected head %s, got %s", head, state.Head)
	}
}

func TestSyncPullFailureKeepsCheckout(t *testing.T) {
	target := t.TempDir()
	fake := &execx.FakeExecutor{Handler: func(execx.ExecCall) execx.ExecResponse {
		return execx.ExecResponse{Err: errors.New("exit status 1")}
	}}

	state := newSyncer(t, testsupport.NewFakeHost("git"), fake).Sync(context.Background(), remote, target)
	if !state.Present || state.Action != reposync.ActionPull || state.Error == "" {
		t.Fatalf("expected present checkout with recorded error, got %+v", state)
	}
	if state.Head != "" {
		t.Fatalf("head must not be read after a failed pull, got %q", state.Head)
	}
}

func TestReadHeadRejectsPlainDirectory(t *testing.T) {
	if _, _, err := reposync.ReadHead(t.TempDir()); err == nil {
		t.Fatal("expected error for a directory without a repository")
	}
}

func TestStateSynced(t *testing.T) {
	tests := []struct {
		state reposync.State
		want  bool
	}{
		{reposync.State{Present: true, Action: reposync.ActionClone}, true},
		{reposync.State{Present: true, Action: reposync.ActionPull, Error: "exit status 1"}, false},
		{reposync.State{Action: reposync.ActionNone, Error: "git not available"}, false},
	}
	for _, tc := range tests {
		if got := tc.state.Synced(); got != tc.want {
			t.Errorf("%+v: Synced() = %v, want %v", tc.state, got, tc.want)
		}
	}
}
