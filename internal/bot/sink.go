package bot

import "context"

// Button представляет одну inline-кнопку
type Button struct {
	Label string
	Data  string
}

// Menu представляет клавиатуру из рядов кнопок
type Menu [][]Button

// Interactor отправляет ответы в чат. Реализуется транспортом.
type Interactor interface {
	// Reply отправляет новое сообщение в чат
	Reply(ctx context.Context, chatID int64, text string, menu Menu) error
	// Edit заменяет текст существующего сообщения.
	// Замена тем же текстом не считается ошибкой.
	Edit(ctx context.Context, chatID int64, messageID int, text string, menu Menu) error
}
