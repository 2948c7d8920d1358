package keyboard

import "github.com/go-telegram/bot/models"

// Builder assembles one-time reply keyboards for the conversation
// prompts.
type Builder struct {
	rows [][]models.KeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.KeyboardButton, 0),
	}
}

// Row adds one row of text buttons.
func (b *Builder) Row(labels ...string) *Builder {
	if len(labels) == 0 {
		return b
	}
	row := make([]models.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		row = append(row, models.KeyboardButton{Text: label})
	}
	b.rows = append(b.rows, row)
	return b
}

// Build returns the finished keyboard. It disappears after one use and
// resizes to its content.
func (b *Builder) Build() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:        b.rows,
		OneTimeKeyboard: true,
		ResizeKeyboard:  true,
	}
}

// Remove clears any reply keyboard currently shown in the chat.
func Remove() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{
		RemoveKeyboard: true,
	}
}
