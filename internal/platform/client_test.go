package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ageha-live/liver-front/internal/diff"
	"github.com/ageha-live/liver-front/internal/model"
)

func registrationInfoFixture() model.RegistrationInfo {
	return model.RegistrationInfo{
		Name:            "あげは",
		BirthDate:       "1998-04-07",
		Email:           "ageha@example.com",
		PhoneNumber:     "+819012345678",
		IDCardImageData: "ZGF0YQ==",
	}
}

type stubTokenSource struct {
	token string
	err   error
}

func (s *stubTokenSource) IDToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func TestFetchTransferRequestInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/livers/transfer-requests/current" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transfer_request_info":{"request_point_num":5000,"status":"reviewing"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	info, code, err := client.FetchTransferRequestInfo(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if info == nil || info.RequestPointNum == nil || *info.RequestPointNum != 5000 {
		t.Fatalf("info = %+v", info)
	}
	if !info.InReviewing() {
		t.Fatal("info must be in reviewing")
	}
}

func TestFetchTransferRequestInfoAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	info, code, err := client.FetchTransferRequestInfo(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if code != http.StatusOK || info != nil {
		t.Fatalf("code = %d, info = %+v, want 200 with absent info", code, info)
	}
}

func TestFetchTransferRequestInfoNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	info, code, err := client.FetchTransferRequestInfo(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if code != http.StatusNotFound || info != nil {
		t.Fatalf("code = %d, info = %+v", code, info)
	}
}

func TestPostTransferRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["phone_number"] != "+819012345678" || body["request_point_num"] != float64(5000) {
			t.Errorf("body = %v", body)
		}
		if _, ok := body["invoice_registered_num"]; ok {
			t.Error("invoice number must not be sent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transfer_request_info":{"request_point_num":5000,"status":"reviewing"},"user":{"point_num":5000}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, code, err := client.PostTransferRequest(context.Background(), PostTransferRequestBody{
		PhoneNumber:     "+819012345678",
		RequestPointNum: 5000,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if result.Info == nil || result.Point == nil || result.Point.PointNum != 5000 {
		t.Fatalf("result = %+v", result)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &stubTokenSource{token: "id-token"})
	if _, _, err := client.FetchTransferRequestInfo(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAuth != "Bearer id-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestAuthorizationSkippedOnTokenError(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &stubTokenSource{err: errors.New("session expired")})
	if _, _, err := client.FetchTransferRequestInfo(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestTransportErrorReturnsZeroStatus(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	_, code, err := client.FetchTransferRequestInfo(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}

func TestFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/profiles/current" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"あげは","hobby":"カラオケ","height":158,"cup_size_type":2,"characteristic_type_list":"[1,0]"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	profile, code, err := client.FetchProfile(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if profile.Name != "あげは" || profile.Hobby == nil || *profile.Hobby != "カラオケ" {
		t.Fatalf("profile = %+v", profile)
	}
	if profile.Height == nil || *profile.Height != 158 {
		t.Fatalf("height = %v, want 158 from the numeric wire form", profile.Height)
	}
	if len(profile.Characteristics) != 2 || profile.Characteristics[0].Value != 0 {
		t.Fatalf("characteristics = %+v", profile.Characteristics)
	}
}

func TestFetchProfileMissingNameIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hobby":"カラオケ"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, code, err := client.FetchProfile(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200 alongside the error", code)
	}
}

func TestPatchProfileSendsExplicitNulls(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"あげは"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	payload := diff.Payload{"hobby": nil}
	profile, code, err := client.PatchProfile(context.Background(), payload)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if code != http.StatusOK || profile.Name != "あげは" {
		t.Fatalf("code = %d, profile = %+v", code, profile)
	}
	if gotBody != `{"hobby":null}` {
		t.Fatalf("body = %s", gotBody)
	}
}

func TestFetchCurrentUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":null,"point_num":12000}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	info, _, err := client.FetchCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if info.Name != "" || info.PointNum != 12000 {
		t.Fatalf("info = %+v", info)
	}
}

func TestFetchCurrentUserMissingPointNum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"あげは"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if _, _, err := client.FetchCurrentUser(context.Background()); !errors.Is(err, ErrMissingPointNum) {
		t.Fatalf("err = %v, want %v", err, ErrMissingPointNum)
	}
}

func TestCreateLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/liver/createLive" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"t","tokenForViewerChatRoom":"v","tokenForAdminChatRoom":"a"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	tokens, code, err := client.CreateLive(context.Background())
	if err != nil {
		t.Fatalf("create live: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if tokens.Token != "t" || tokens.TokenForViewerChatRoom != "v" || tokens.TokenForAdminChatRoom != "a" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestPostRegistrationWireShape(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/liver/registration-info-list" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	code, err := client.PostRegistration(context.Background(), registrationInfoFixture())
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if body["email_address"] != "ageha@example.com" {
		t.Fatalf("body = %v, want email under email_address", body)
	}
	if body["id_card_image"] != "ZGF0YQ==" {
		t.Fatalf("body = %v, want image under id_card_image", body)
	}
}
