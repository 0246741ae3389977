// Package platform содержит HTTP-клиент платформы вещания. Клиент
// подписывает запросы токеном личности и возвращает вместе с данными
// wire-статус ответа, по которому вызывающие подбирают запись каталога.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ageha-live/liver-front/internal/diff"
	"github.com/ageha-live/liver-front/internal/model"
)

const clientTimeout = 5 * time.Second

// ErrMissingPointNum возвращается, когда в ответе о пользователе нет остатка баллов.
var ErrMissingPointNum = errors.New("user payload has no point_num")

// TokenSource выдаёт токен личности для подписи запросов к платформе.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// Client — клиент API платформы. Заголовок Authorization добавляется
// только к запросам на настроенный origin платформы.
type Client struct {
	baseURL    string
	origin     string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient создаёт клиент платформы с адресом базового URL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		origin:  originOf(baseURL),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// do выполняет запрос и декодирует 2xx-ответ в out (если out задан).
// Возвращает wire-статус; при транспортной ошибке статус равен нулю.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, nil
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// authorize добавляет токен личности, если запрос уходит на origin
// платформы. Ошибка получения токена запрос не останавливает.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil || originOf(req.URL.String()) != c.origin {
		return
	}
	token, err := c.tokens.IDToken(ctx)
	if err != nil || token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

type transferRequestWire struct {
	Info *model.TransferRequestInfo `json:"transfer_request_info"`
}

// FetchTransferRequestInfo запрашивает текущую заявку на вывод.
// Отсутствие заявки в 2xx-ответе не является ошибкой: вернётся nil.
func (c *Client) FetchTransferRequestInfo(ctx context.Context) (*model.TransferRequestInfo, int, error) {
	var wire transferRequestWire
	code, err := c.do(ctx, http.MethodGet, "/livers/transfer-requests/current", nil, &wire)
	if err != nil {
		return nil, code, err
	}
	return wire.Info, code, nil
}

// PostTransferRequestBody — тело заявки на вывод баллов.
type PostTransferRequestBody struct {
	PhoneNumber     string `json:"phone_number"`
	RequestPointNum int    `json:"request_point_num"`
}

// TransferRequestResult — подтверждённая платформой заявка и новый остаток.
type TransferRequestResult struct {
	Info  *model.TransferRequestInfo
	Point *model.UserPointInfo
}

type transferRequestResultWire struct {
	Info *model.TransferRequestInfo `json:"transfer_request_info"`
	User *model.UserPointInfo       `json:"user"`
}

// PostTransferRequest отправляет заявку на вывод баллов.
func (c *Client) PostTransferRequest(ctx context.Context, body PostTransferRequestBody) (*TransferRequestResult, int, error) {
	var wire transferRequestResultWire
	code, err := c.do(ctx, http.MethodPost, "/livers/transfer-requests/current", body, &wire)
	if err != nil {
		return nil, code, err
	}
	return &TransferRequestResult{Info: wire.Info, Point: wire.User}, code, nil
}

// FetchProfile запрашивает профиль текущей вещательницы.
func (c *Client) FetchProfile(ctx context.Context) (*model.UserProfile, int, error) {
	var wire model.ProfileWire
	code, err := c.do(ctx, http.MethodGet, "/users/profiles/current", nil, &wire)
	if err != nil {
		return nil, code, err
	}
	profile, err := wire.ToProfile()
	if err != nil {
		return nil, code, fmt.Errorf("decode response: %w", err)
	}
	return profile, code, nil
}

// PatchProfile отправляет частичное обновление профиля и возвращает
// каноническую запись с платформы.
func (c *Client) PatchProfile(ctx context.Context, payload diff.Payload) (*model.UserProfile, int, error) {
	var wire model.ProfileWire
	code, err := c.do(ctx, http.MethodPatch, "/users/profiles/current", payload, &wire)
	if err != nil {
		return nil, code, err
	}
	profile, err := wire.ToProfile()
	if err != nil {
		return nil, code, fmt.Errorf("decode response: %w", err)
	}
	return profile, code, nil
}

type loggedInUserWire struct {
	Name     *string `json:"name"`
	PointNum *int    `json:"point_num"`
}

// FetchCurrentUser запрашивает имя и остаток баллов текущего пользователя.
// Отсутствие имени на wire означает пустое имя; отсутствие остатка —
// неразборчивый ответ.
func (c *Client) FetchCurrentUser(ctx context.Context) (*model.LoggedInUserInfo, int, error) {
	var wire loggedInUserWire
	code, err := c.do(ctx, http.MethodGet, "/users/current", nil, &wire)
	if err != nil {
		return nil, code, err
	}
	if wire.PointNum == nil {
		return nil, code, fmt.Errorf("decode response: %w", ErrMissingPointNum)
	}
	info := &model.LoggedInUserInfo{PointNum: *wire.PointNum}
	if wire.Name != nil {
		info.Name = *wire.Name
	}
	return info, code, nil
}

type registrationWire struct {
	Name                string `json:"name"`
	BirthDate           string `json:"birth_date"`
	EmailAddress        string `json:"email_address"`
	PhoneNumber         string `json:"phone_number"`
	IsAccessFromWifi    bool   `json:"is_access_from_wifi"`
	HasAlreadyBeenLiver bool   `json:"has_already_been_liver"`
	IDCardImage         string `json:"id_card_image"`
	IntroducerCode      string `json:"introducer_code,omitempty"`
}

// PostRegistration отправляет анкету кандидатки на платформу.
func (c *Client) PostRegistration(ctx context.Context, info model.RegistrationInfo) (int, error) {
	body := registrationWire{
		Name:                info.Name,
		BirthDate:           info.BirthDate,
		EmailAddress:        info.Email,
		PhoneNumber:         info.PhoneNumber,
		IsAccessFromWifi:    info.IsAccessFromWifi,
		HasAlreadyBeenLiver: info.HasAlreadyBeenLiver,
		IDCardImage:         info.IDCardImageData,
		IntroducerCode:      info.IntroducerCode,
	}
	return c.do(ctx, http.MethodPost, "/liver/registration-info-list", body, nil)
}

// LiveTokens — токены доступа к созданной трансляции и её чатам.
type LiveTokens struct {
	Token                  string `json:"token"`
	TokenForViewerChatRoom string `json:"tokenForViewerChatRoom"`
	TokenForAdminChatRoom  string `json:"tokenForAdminChatRoom"`
}

// CreateLive создаёт трансляцию и возвращает её токены.
func (c *Client) CreateLive(ctx context.Context) (*LiveTokens, int, error) {
	var tokens LiveTokens
	code, err := c.do(ctx, http.MethodPost, "/liver/createLive", nil, &tokens)
	if err != nil {
		return nil, code, err
	}
	return &tokens, code, nil
}
