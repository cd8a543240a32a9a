// Package bot содержит диалоговую логику: маршрутизацию команд и кнопок,
// машину состояний ввода и тексты отчетов. Пакет не знает о конкретном
// транспорте чата, события приходят извне через Event, ответы уходят
// через Interactor.
package bot

import "strings"

// Event представляет одно входящее событие чата: команду, текст
// или нажатие кнопки
type Event struct {
	ChatID    int64
	UserID    int64
	MessageID int // сообщение с кнопками, для редактирования при callback

	Text         string
	CallbackData string

	Username  string
	FirstName string
	LastName  string
}

// IsCallback сообщает, что событие пришло от нажатия кнопки
func (e Event) IsCallback() bool {
	return e.CallbackData != ""
}

// Command возвращает имя команды без слеша и аргументов,
// пустую строку для обычного текста
func (e Event) Command() string {
	text := strings.TrimSpace(e.Text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	cmd = strings.TrimPrefix(cmd, "/")
	// формат /command@botname в групповых чатах
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
