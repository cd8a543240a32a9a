package bot

import (
	"sync"
	"time"
)

// FlowState представляет состояние диалога с пользователем
type FlowState int

const (
	StateIdle FlowState = iota
	StateAwaitStartDate
	StateAwaitEndDate
	StateAwaitToken
)

// брошенный диалог истекает и возвращается в StateIdle
const flowTTL = 30 * time.Minute

type flowEntry struct {
	state     FlowState
	startDate time.Time // принятая начальная дата, для StateAwaitEndDate
	updated   time.Time
}

// FlowStore хранит состояния диалогов по чатам.
// Начало нового диалога сбрасывает предыдущий.
type FlowStore struct {
	mu      sync.Mutex
	entries map[int64]*flowEntry
	now     func() time.Time
}

// NewFlowStore создает пустое хранилище диалогов
func NewFlowStore() *FlowStore {
	return &FlowStore{
		entries: make(map[int64]*flowEntry),
		now:     time.Now,
	}
}

// Begin переводит чат в заданное состояние, затирая прошлый диалог
func (f *FlowStore) Begin(chatID int64, state FlowState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[chatID] = &flowEntry{state: state, updated: f.now()}
}

// State возвращает текущее состояние чата с учетом истечения
func (f *FlowStore) State(chatID int64) FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[chatID]
	if !ok {
		return StateIdle
	}
	if f.now().Sub(entry.updated) > flowTTL {
		delete(f.entries, chatID)
		return StateIdle
	}
	return entry.state
}

// AcceptStartDate сохраняет начальную дату и ждет конечную
func (f *FlowStore) AcceptStartDate(chatID int64, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[chatID] = &flowEntry{
		state:     StateAwaitEndDate,
		startDate: date,
		updated:   f.now(),
	}
}

// StartDate возвращает принятую начальную дату текущего диалога
func (f *FlowStore) StartDate(chatID int64) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[chatID]
	if !ok || entry.state != StateAwaitEndDate {
		return time.Time{}, false
	}
	return entry.startDate, true
}

// Touch продлевает жизнь диалога после очередного ввода
func (f *FlowStore) Touch(chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.entries[chatID]; ok {
		entry.updated = f.now()
	}
}

// Clear завершает диалог чата
func (f *FlowStore) Clear(chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, chatID)
}
