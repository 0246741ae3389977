package handler

import (
	"sync"

	"github.com/ageha-live/liver-front/internal/workflow"
)

// Registry хранит экземпляры автоматов сценариев по субъекту сеанса.
// Автомат живёт, пока жив сеанс; загрузка в нём выполняется один раз.
type Registry struct {
	mu        sync.Mutex
	client    PlatformClient
	transfers map[string]*workflow.Transfer
	profiles  map[string]*workflow.Profile
}

// NewRegistry создаёт реестр автоматов поверх клиента платформы.
func NewRegistry(client PlatformClient) *Registry {
	return &Registry{
		client:    client,
		transfers: make(map[string]*workflow.Transfer),
		profiles:  make(map[string]*workflow.Profile),
	}
}

// Transfer возвращает автомат заявки сеанса, создавая его при первом обращении.
func (r *Registry) Transfer(subject string) *workflow.Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.transfers[subject]
	if !ok {
		wf = workflow.NewTransfer(r.client)
		r.transfers[subject] = wf
	}
	return wf
}

// Profile возвращает автомат профиля сеанса, создавая его при первом обращении.
func (r *Registry) Profile(subject string) *workflow.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.profiles[subject]
	if !ok {
		wf = workflow.NewProfile(r.client)
		r.profiles[subject] = wf
	}
	return wf
}

// Drop закрывает и удаляет автоматы сеанса.
func (r *Registry) Drop(subject string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wf, ok := r.transfers[subject]; ok {
		wf.Close()
		delete(r.transfers, subject)
	}
	if wf, ok := r.profiles[subject]; ok {
		wf.Close()
		delete(r.profiles, subject)
	}
}
