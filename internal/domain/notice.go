package domain

// NoticeLevel - уровень пользовательского уведомления
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice - уведомление, возвращаемое вместе с результатом запроса (замена flash-сообщений)
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// SuccessNotice создаёт уведомление об успехе
func SuccessNotice(message string) Notice {
	return Notice{Level: NoticeSuccess, Message: message}
}

// ErrorNotice создаёт уведомление об ошибке
func ErrorNotice(message string) Notice {
	return Notice{Level: NoticeError, Message: message}
}
