// Package response описывает проводной формат ответа: успешный вызов
// отдается как {"response": ..., "code": ...}, ошибка — как
// {"error": ..., "code": ...}.
package response

// Response — тело HTTP-ответа.
type Response struct {
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     int    `json:"code"`
}

var statusText = map[int]string{
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	422: "Invalid Request",
	500: "Internal Server Error",
}

// Success оборачивает полезную нагрузку успешного вызова.
func Success(payload any, code int) Response {
	return Response{
		Response: payload,
		Code:     code,
	}
}

// Failure оборачивает сообщение об ошибке. Пустое сообщение заменяется
// стандартным текстом статуса.
func Failure(msg string, code int) Response {
	if msg == "" {
		msg = StatusText(code)
	}
	return Response{
		Error: msg,
		Code:  code,
	}
}

// StatusText возвращает стандартный текст для кода ошибки.
func StatusText(code int) string {
	if txt, ok := statusText[code]; ok {
		return txt
	}
	return "Unknown Error"
}

// IsFailure сообщает, является ли код ошибочным.
func IsFailure(code int) bool {
	_, ok := statusText[code]
	return ok
}
