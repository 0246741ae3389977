package broadcast

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ageha-live/liver-front/internal/platform"
	"github.com/ageha-live/liver-front/internal/status"
)

type stubLiveStarter struct {
	tokens *platform.LiveTokens
	code   int
	err    error
}

func (s *stubLiveStarter) CreateLive(ctx context.Context) (*platform.LiveTokens, int, error) {
	return s.tokens, s.code, s.err
}

func TestStageStart(t *testing.T) {
	stage := NewStage(&stubLiveStarter{
		tokens: &platform.LiveTokens{Token: "t", TokenForViewerChatRoom: "v", TokenForAdminChatRoom: "a"},
		code:   http.StatusOK,
	})

	tokens, st := stage.Start(context.Background())
	if !st.OK() {
		t.Fatalf("status = %+v", st)
	}
	if tokens == nil || tokens.Token != "t" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestStageStartForbidden(t *testing.T) {
	stage := NewStage(&stubLiveStarter{code: http.StatusForbidden})

	tokens, st := stage.Start(context.Background())
	if tokens != nil {
		t.Fatalf("tokens = %+v", tokens)
	}
	if st.Code != http.StatusForbidden {
		t.Fatalf("status = %+v", st)
	}
	if st.Message != "配信を開始する権限がありません" {
		t.Fatalf("message = %q", st.Message)
	}
}

func TestStageStartTransportError(t *testing.T) {
	stage := NewStage(&stubLiveStarter{err: errors.New("connection refused")})

	_, st := stage.Start(context.Background())
	if st.Code != status.CodeClientError {
		t.Fatalf("status = %+v, want CLIENT_ERROR", st)
	}
}

func TestStageStartSuccessWithoutTokens(t *testing.T) {
	stage := NewStage(&stubLiveStarter{code: http.StatusOK})

	_, st := stage.Start(context.Background())
	if st.Code != status.CodeOthers {
		t.Fatalf("status = %+v, want OTHERS", st)
	}
}

func TestStageJoinLeaveCallbacks(t *testing.T) {
	stage := NewStage(&stubLiveStarter{})

	joined := make(chan error, 1)
	stage.Join(func() error { return nil }, func(err error) { joined <- err })
	select {
	case err := <-joined:
		if err != nil {
			t.Fatalf("join callback err = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("join callback not fired")
	}

	wantErr := errors.New("stage unavailable")
	left := make(chan error, 1)
	stage.Leave(func() error { return wantErr }, func(err error) { left <- err })
	select {
	case err := <-left:
		if !errors.Is(err, wantErr) {
			t.Fatalf("leave callback err = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("leave callback not fired")
	}
}
