package models

import "errors"

// Категории доменных ошибок. Хранилища оборачивают их через fmt.Errorf
// с сообщением конкретной операции, обработчики различают через errors.Is.
var (
	// ErrNotFound - запрошенная сущность отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrValidation - обязательное поле отсутствует или некорректно.
	ErrValidation = errors.New("validation failed")
	// ErrNotConnected - соединение с хранилищем не установлено.
	// Сам адаптер при неудачном подключении ошибку не бросает, а логирует;
	// наружу она всплывает отсюда при первой реальной операции.
	ErrNotConnected = errors.New("store is not connected")
)
