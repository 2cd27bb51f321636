package models

// RowError - ошибка одной строки CSV. Номер строки считается от заголовка
// (заголовок - строка 1), row содержит исходные значения полей.
type RowError struct {
	Line  int               `json:"line"`
	Row   map[string]string `json:"row"`
	Error string            `json:"error"`
}

// UploadResult - итог загрузки: сколько строк записано и какие строки
// не прошли. Ошибки строк не прерывают обработку файла.
type UploadResult struct {
	Inserted int        `json:"inserted"`
	Errors   []RowError `json:"errors"`
}
