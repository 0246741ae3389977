package workflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ageha-live/liver-front/internal/model"
	"github.com/ageha-live/liver-front/internal/platform"
	"github.com/ageha-live/liver-front/internal/status"
)

type stubTransferClient struct {
	fetchCalls int
	fetchInfo  *model.TransferRequestInfo
	fetchCode  int
	fetchErr   error

	postCalls   int
	postBodies  []platform.PostTransferRequestBody
	postResult  *platform.TransferRequestResult
	postCode    int
	postErr     error
	postStarted chan struct{}
	postRelease chan struct{}
}

func (s *stubTransferClient) FetchTransferRequestInfo(ctx context.Context) (*model.TransferRequestInfo, int, error) {
	s.fetchCalls++
	return s.fetchInfo, s.fetchCode, s.fetchErr
}

func (s *stubTransferClient) PostTransferRequest(ctx context.Context, body platform.PostTransferRequestBody) (*platform.TransferRequestResult, int, error) {
	s.postCalls++
	s.postBodies = append(s.postBodies, body)
	if s.postStarted != nil {
		s.postStarted <- struct{}{}
		<-s.postRelease
	}
	return s.postResult, s.postCode, s.postErr
}

func intPtr(v int) *int { return &v }

func readyTransfer(t *testing.T, client *stubTransferClient) *Transfer {
	t.Helper()
	if client.fetchCode == 0 {
		client.fetchCode = http.StatusOK
	}
	w := NewTransfer(client)
	st, err := w.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !st.OK() {
		t.Fatalf("fetch status = %+v", st)
	}
	return w
}

func TestTransferFetchReady(t *testing.T) {
	client := &stubTransferClient{
		fetchInfo: &model.TransferRequestInfo{RequestPointNum: intPtr(5000), Status: model.ReviewStatusReviewing},
		fetchCode: http.StatusOK,
	}
	w := NewTransfer(client)

	if w.State() != StateIdle {
		t.Fatalf("state = %s", w.State())
	}
	st, err := w.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !st.OK() {
		t.Fatalf("status = %+v", st)
	}
	if w.State() != StateReady {
		t.Fatalf("state = %s", w.State())
	}
	if !w.Current().InReviewing() {
		t.Fatal("current request must be in reviewing")
	}
}

func TestTransferFetchRunsOnce(t *testing.T) {
	client := &stubTransferClient{fetchCode: http.StatusOK}
	w := readyTransfer(t, client)

	if _, err := w.Fetch(context.Background()); !errors.Is(err, ErrAlreadyFetched) {
		t.Fatalf("err = %v, want %v", err, ErrAlreadyFetched)
	}
	if client.fetchCalls != 1 {
		t.Fatalf("fetch calls = %d", client.fetchCalls)
	}
}

func TestTransferFetchNotFound(t *testing.T) {
	client := &stubTransferClient{fetchCode: http.StatusNotFound}
	w := NewTransfer(client)

	st, err := w.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if st.Code != http.StatusNotFound {
		t.Fatalf("status = %+v", st)
	}
	if w.State() != StateFetchError {
		t.Fatalf("state = %s", w.State())
	}
}

func TestTransferFetchTransportError(t *testing.T) {
	client := &stubTransferClient{fetchErr: errors.New("connection refused")}
	w := NewTransfer(client)

	st, _ := w.Fetch(context.Background())
	if st.Code != status.CodeClientError {
		t.Fatalf("status = %+v, want CLIENT_ERROR", st)
	}
}

func TestTransferSubmitBeforeFetch(t *testing.T) {
	w := NewTransfer(&stubTransferClient{})
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want %v", err, ErrNotReady)
	}
}

func TestTransferSubmitInvalidInputSkipsNetwork(t *testing.T) {
	client := &stubTransferClient{}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)

	if err := w.SetInput("090-1234-5678", intPtr(2_999), ""); err != nil {
		t.Fatalf("set input: %v", err)
	}
	st, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if st.Code != status.CodeTransferInvalidItem {
		t.Fatalf("status = %+v", st)
	}
	if client.postCalls != 0 {
		t.Fatalf("post calls = %d, want 0", client.postCalls)
	}
	if w.State() != StateSubmitError {
		t.Fatalf("state = %s", w.State())
	}

	phone, points, _ := w.Inputs()
	if phone != "090-1234-5678" || points == nil || *points != 2_999 {
		t.Fatal("edit buffer was reset by the error transition")
	}
}

func TestTransferSubmitInvalidInvoiceSkipsNetwork(t *testing.T) {
	client := &stubTransferClient{}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)

	w.SetInput("090-1234-5678", intPtr(5_000), "12345")
	st, _ := w.Submit(context.Background())
	if st.Code != status.CodeTransferInvalidItem {
		t.Fatalf("status = %+v", st)
	}
	if client.postCalls != 0 {
		t.Fatalf("post calls = %d, want 0", client.postCalls)
	}
}

func TestTransferSubmitReconciles(t *testing.T) {
	client := &stubTransferClient{
		postResult: &platform.TransferRequestResult{
			Info:  &model.TransferRequestInfo{RequestPointNum: intPtr(5_000), Status: model.ReviewStatusReviewing},
			Point: &model.UserPointInfo{PointNum: 5_000},
		},
		postCode: http.StatusOK,
	}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)
	w.SetInput("090-1234-5678", intPtr(5_000), "1234567890123")

	st, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !st.OK() {
		t.Fatalf("status = %+v", st)
	}
	if w.State() != StateReconciled {
		t.Fatalf("state = %s", w.State())
	}
	if !w.Current().InReviewing() {
		t.Fatal("current request must be reconciled into reviewing")
	}

	if len(client.postBodies) != 1 {
		t.Fatalf("post calls = %d", len(client.postBodies))
	}
	body := client.postBodies[0]
	if body.PhoneNumber != "+819012345678" {
		t.Fatalf("phone sent as %q, want E.164", body.PhoneNumber)
	}
	if body.RequestPointNum != 5_000 {
		t.Fatalf("points sent as %d", body.RequestPointNum)
	}

	if err := w.Acknowledge(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if w.State() != StateReady {
		t.Fatalf("state after acknowledge = %s", w.State())
	}
}

func TestTransferSubmitConflict(t *testing.T) {
	client := &stubTransferClient{postCode: http.StatusConflict}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)
	w.SetInput("090-1234-5678", intPtr(5_000), "")

	st, _ := w.Submit(context.Background())
	if st.Code != http.StatusConflict {
		t.Fatalf("status = %+v", st)
	}
	if w.State() != StateSubmitError {
		t.Fatalf("state = %s", w.State())
	}

	phone, _, _ := w.Inputs()
	if phone != "090-1234-5678" {
		t.Fatal("edit buffer was reset by the error transition")
	}
}

func TestTransferSubmitSuccessWithoutBodyIsOthers(t *testing.T) {
	client := &stubTransferClient{
		postResult: &platform.TransferRequestResult{},
		postCode:   http.StatusOK,
	}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)
	w.SetInput("090-1234-5678", intPtr(5_000), "")

	st, _ := w.Submit(context.Background())
	if st.Code != status.CodeOthers {
		t.Fatalf("status = %+v, want OTHERS", st)
	}
}

func TestTransferSubmitInFlightGuard(t *testing.T) {
	client := &stubTransferClient{
		postResult: &platform.TransferRequestResult{
			Info:  &model.TransferRequestInfo{RequestPointNum: intPtr(5_000), Status: model.ReviewStatusReviewing},
			Point: &model.UserPointInfo{PointNum: 5_000},
		},
		postCode:    http.StatusOK,
		postStarted: make(chan struct{}),
		postRelease: make(chan struct{}),
	}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)
	w.SetInput("090-1234-5678", intPtr(5_000), "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Submit(context.Background())
	}()
	<-client.postStarted

	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("err = %v, want %v", err, ErrSubmitInFlight)
	}

	close(client.postRelease)
	<-done
	if w.State() != StateReconciled {
		t.Fatalf("state = %s", w.State())
	}
}

func TestTransferLateResponseAfterClose(t *testing.T) {
	client := &stubTransferClient{
		postResult: &platform.TransferRequestResult{
			Info:  &model.TransferRequestInfo{RequestPointNum: intPtr(5_000), Status: model.ReviewStatusReviewing},
			Point: &model.UserPointInfo{PointNum: 5_000},
		},
		postCode:    http.StatusOK,
		postStarted: make(chan struct{}),
		postRelease: make(chan struct{}),
	}
	w := readyTransfer(t, client)
	w.SetBalance(10_000)
	w.SetInput("090-1234-5678", intPtr(5_000), "")

	result := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		result <- err
	}()
	<-client.postStarted

	w.Close()
	close(client.postRelease)

	if err := <-result; !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want %v", err, ErrClosed)
	}
	if w.Current() != nil {
		t.Fatal("late response must be discarded")
	}
}
