// Package handler содержит HTTP-обработчики API фронт-сервиса.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/ageha-live/liver-front/internal/broadcast"
	"github.com/ageha-live/liver-front/internal/identity"
	"github.com/ageha-live/liver-front/internal/model"
	"github.com/ageha-live/liver-front/internal/platform"
	"github.com/ageha-live/liver-front/internal/repository"
	"github.com/ageha-live/liver-front/internal/status"
	"github.com/ageha-live/liver-front/internal/workflow"
)

// PlatformClient определяет контракт клиента платформы, используемый обработчиками.
type PlatformClient interface {
	workflow.TransferClient
	workflow.ProfileClient
	workflow.RegistrationClient
	FetchCurrentUser(ctx context.Context) (*model.LoggedInUserInfo, int, error)
	CreateLive(ctx context.Context) (*platform.LiveTokens, int, error)
}

// SavedInputStore определяет контракт хранилища сохранённого ввода.
// Хранилище опционально: без него формы не предзаполняются.
type SavedInputStore interface {
	GetTransferInputs(ctx context.Context, subject string) (*repository.TransferInputs, error)
	SaveTransferInputs(ctx context.Context, subject string, inputs repository.TransferInputs) error
	GetCachedUserInfo(ctx context.Context, subject string) (*model.LoggedInUserInfo, error)
	SetCachedUserInfo(ctx context.Context, subject string, info model.LoggedInUserInfo) error
}

// Handler реализует HTTP-обработчики API фронт-сервиса.
type Handler struct {
	client       PlatformClient
	registry     *Registry
	stage        *broadcast.Stage
	store        SavedInputStore
	chatEndpoint string
	logger       *zap.Logger

	roomsMu sync.Mutex
	rooms   map[string]*broadcast.Room
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// store может быть nil; пустой chatEndpoint отключает комнаты чата.
func NewHandler(client PlatformClient, store SavedInputStore, chatEndpoint string, logger *zap.Logger) *Handler {
	return &Handler{
		client:       client,
		registry:     NewRegistry(client),
		stage:        broadcast.NewStage(client),
		store:        store,
		chatEndpoint: chatEndpoint,
		logger:       logger,
		rooms:        make(map[string]*broadcast.Room),
	}
}

// response — единый конверт ответа: запись каталога плюс данные.
type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, st status.Status, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response{Code: st.Code, Message: st.Message, Data: data}); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) subject(r *http.Request) (string, bool) {
	session, ok := identity.SessionFromContext(r.Context())
	if !ok {
		return "", false
	}
	return session.Subject, true
}

// workflowError переводит ошибку неверного обращения к автомату в HTTP-статус.
func (h *Handler) workflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrSubmitInFlight):
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
	case errors.Is(err, workflow.ErrClosed):
		http.Error(w, http.StatusText(http.StatusGone), http.StatusGone)
	default:
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
	}
}

type transferData struct {
	State                string                     `json:"state"`
	Info                 *model.TransferRequestInfo `json:"transfer_request_info,omitempty"`
	PointNum             *int                       `json:"point_num,omitempty"`
	PhoneNumber          string                     `json:"phone_number,omitempty"`
	InvoiceRegisteredNum string                     `json:"invoice_registered_num,omitempty"`
}

// GetTransferRequest загружает сценарий заявки: текущую заявку, остаток
// баллов и сохранённый ввод формы.
func (h *Handler) GetTransferRequest(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	wf := h.registry.Transfer(subject)

	st := status.FetchTransferRequest.Lookup(http.StatusOK)
	if wf.State() == workflow.StateIdle {
		fetched, err := wf.Fetch(r.Context())
		if err != nil {
			h.workflowError(w, err)
			return
		}
		st = fetched
	}

	data := transferData{State: string(wf.State()), Info: wf.Current()}

	if user, code, err := h.client.FetchCurrentUser(r.Context()); err == nil && code == http.StatusOK {
		wf.SetBalance(user.PointNum)
		data.PointNum = &user.PointNum
		h.cacheUserInfo(r.Context(), subject, *user)
	}

	if h.store != nil {
		if inputs, err := h.store.GetTransferInputs(r.Context(), subject); err == nil {
			data.PhoneNumber = inputs.PhoneNumber
			data.InvoiceRegisteredNum = inputs.InvoiceRegisteredNum
		} else if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Error("get transfer inputs", zap.Error(err))
		}
	}

	h.writeJSON(w, st, data)
}

type transferSubmitRequest struct {
	PhoneNumber          string `json:"phone_number"`
	RequestPointNum      *int   `json:"request_point_num"`
	InvoiceRegisteredNum string `json:"invoice_registered_num"`
}

// PostTransferRequest принимает ввод формы и отправляет заявку на вывод.
func (h *Handler) PostTransferRequest(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req transferSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	wf := h.registry.Transfer(subject)
	if err := wf.SetInput(req.PhoneNumber, req.RequestPointNum, req.InvoiceRegisteredNum); err != nil {
		h.workflowError(w, err)
		return
	}

	st, err := wf.Submit(r.Context())
	if err != nil {
		h.workflowError(w, err)
		return
	}

	if st.OK() {
		if h.store != nil {
			saveErr := h.store.SaveTransferInputs(r.Context(), subject, repository.TransferInputs{
				PhoneNumber:          req.PhoneNumber,
				InvoiceRegisteredNum: req.InvoiceRegisteredNum,
			})
			if saveErr != nil {
				h.logger.Error("save transfer inputs", zap.Error(saveErr))
			}
		}
		// Ответ и есть показ результата, поэтому подтверждаем сразу.
		if err := wf.Acknowledge(); err != nil {
			h.logger.Error("acknowledge transfer", zap.Error(err))
		}
	}

	h.writeJSON(w, st, transferData{State: string(wf.State()), Info: wf.Current()})
}

type profileData struct {
	State   string             `json:"state"`
	Profile *model.ProfileWire `json:"profile,omitempty"`
}

// GetProfile загружает сценарий редактирования профиля.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	wf := h.registry.Profile(subject)

	st := status.FetchProfile.Lookup(http.StatusOK)
	if wf.State() == workflow.StateIdle {
		fetched, err := wf.Fetch(r.Context())
		if err != nil {
			h.workflowError(w, err)
			return
		}
		st = fetched
	}

	data := profileData{State: string(wf.State())}
	if initial := wf.Initial(); initial != nil {
		wire := initial.Wire()
		data.Profile = &wire
	}

	h.writeJSON(w, st, data)
}

type profileEditRequest struct {
	Profile          model.ProfileWire `json:"profile"`
	ProfileImageData string            `json:"profile_image_data,omitempty"`
}

// PatchProfile принимает отредактированный профиль, собирает диф и
// отправляет частичное обновление.
func (h *Handler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req profileEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	edited, err := req.Profile.ToProfile()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	wf := h.registry.Profile(subject)
	if err := wf.SetWorking(*edited); err != nil {
		h.workflowError(w, err)
		return
	}
	if req.ProfileImageData != "" {
		image, err := base64.StdEncoding.DecodeString(req.ProfileImageData)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err := wf.SetImage(image); err != nil {
			h.workflowError(w, err)
			return
		}
	}

	st, err := wf.Submit(r.Context())
	if err != nil {
		h.workflowError(w, err)
		return
	}

	if st.OK() {
		// Ответ и есть показ результата, поэтому подтверждаем сразу.
		if err := wf.Acknowledge(); err != nil {
			h.logger.Error("acknowledge profile", zap.Error(err))
		}
	}

	data := profileData{State: string(wf.State())}
	if initial := wf.Initial(); initial != nil {
		wire := initial.Wire()
		data.Profile = &wire
	}
	h.writeJSON(w, st, data)
}

// GetCurrentUser возвращает имя и остаток баллов текущего пользователя.
// При сбое платформы отдаётся последняя закешированная запись, если есть.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, code, err := h.client.FetchCurrentUser(r.Context())

	var st status.Status
	switch {
	case code == 0:
		st = status.FetchCurrentUser.Lookup(status.CodeClientError)
	case err != nil:
		st = status.FetchCurrentUser.Lookup(status.CodeOthers)
	default:
		st = status.FetchCurrentUser.Lookup(code)
	}

	if st.OK() {
		h.cacheUserInfo(r.Context(), subject, *user)
		h.writeJSON(w, st, user)
		return
	}

	if h.store != nil {
		if cached, cacheErr := h.store.GetCachedUserInfo(r.Context(), subject); cacheErr == nil {
			h.writeJSON(w, st, cached)
			return
		}
	}
	h.writeJSON(w, st, nil)
}

func (h *Handler) cacheUserInfo(ctx context.Context, subject string, info model.LoggedInUserInfo) {
	if h.store == nil {
		return
	}
	if err := h.store.SetCachedUserInfo(ctx, subject, info); err != nil {
		h.logger.Error("cache user info", zap.Error(err))
	}
}

// RegisterApplicant принимает анкету кандидатки и отправляет её на платформу.
func (h *Handler) RegisterApplicant(w http.ResponseWriter, r *http.Request) {
	var info model.RegistrationInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	st := workflow.RegisterApplicant(r.Context(), h.client, info)
	h.writeJSON(w, st, nil)
}

// StartLive создаёт трансляцию, подключает комнату чата ведущей и
// возвращает токены трансляции.
func (h *Handler) StartLive(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	tokens, st := h.stage.Start(r.Context())
	if st.OK() {
		h.connectChatRoom(r.Context(), subject, tokens)
	}
	h.writeJSON(w, st, tokens)
}

// connectChatRoom подключает комнату чата с токеном ведущей. Сбой чата
// трансляцию не отменяет.
func (h *Handler) connectChatRoom(ctx context.Context, subject string, tokens *platform.LiveTokens) {
	if h.chatEndpoint == "" {
		return
	}

	room := broadcast.NewRoom(h.chatEndpoint, broadcast.RoomListeners{
		OnDisconnect: func() {
			h.logger.Info("chat room disconnected", zap.String("subject", subject))
		},
	})
	if err := room.Connect(ctx, tokens.TokenForAdminChatRoom); err != nil {
		h.logger.Error("connect chat room", zap.Error(err))
		return
	}

	h.roomsMu.Lock()
	old := h.rooms[subject]
	h.rooms[subject] = room
	h.roomsMu.Unlock()
	if old != nil {
		old.Disconnect()
	}
}

func (h *Handler) chatRoom(subject string) *broadcast.Room {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	return h.rooms[subject]
}

func (h *Handler) dropChatRoom(subject string) {
	h.roomsMu.Lock()
	room := h.rooms[subject]
	delete(h.rooms, subject)
	h.roomsMu.Unlock()
	if room != nil {
		if err := room.Disconnect(); err != nil {
			h.logger.Error("disconnect chat room", zap.Error(err))
		}
	}
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

// SendChatMessage отправляет сообщение в комнату чата текущей трансляции.
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	room := h.chatRoom(subject)
	if room == nil {
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		return
	}
	if err := room.SendMessage(req.Message); err != nil {
		if errors.Is(err, broadcast.ErrNotConnected) {
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
			return
		}
		h.logger.Error("send chat message", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DisconnectChat закрывает комнату чата текущей трансляции.
func (h *Handler) DisconnectChat(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.dropChatRoom(subject)
	w.WriteHeader(http.StatusNoContent)
}

// ResetSession завершает сценарии сеанса и отключает его комнату чата.
// Следующий вход в представление создаёт свежие экземпляры и повторяет
// загрузку, в том числе после ошибки первой загрузки.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.registry.Drop(subject)
	h.dropChatRoom(subject)
	w.WriteHeader(http.StatusNoContent)
}
