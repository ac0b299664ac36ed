package file

import (
	"errors"
	"fmt"
)

// Kind is the stable machine-readable class of a file operation failure.
type Kind string

const (
	KindNotFound    Kind = "NOT_FOUND"
	KindInvalidName Kind = "NOT_VALID_NAME"
	KindNameExists  Kind = "ALREADY_EXISTS"
	KindMustBeSame  Kind = "MUST_BE_SAME"
	KindTooLarge    Kind = "TOO_BIG"
	KindValidation  Kind = "CLIENT_ERROR"
	KindStorage     Kind = "DB_ERROR"
)

var kindMessages = map[Kind][2]string{
	KindNotFound:    {"Не удалось найти ресурс", "По вашему запросу ресурс не найден"},
	KindInvalidName: {"Неверное имя файла", "Имя файла не должно содержать знаки < > : \" / \\ | ? * ;"},
	KindNameExists:  {"Ошибка уникальности", "Файл с таким именем уже существует"},
	KindMustBeSame:  {"Разные файлы", "У обновляемого файла должно быть такое же название"},
	KindTooLarge:    {"Слишком большой вес файла", "Вес файла не должен превышать допустимый размер"},
	KindValidation:  {"Ошибка в запросе", "Проверьте параметры и повторите запрос"},
	KindStorage:     {"Ошибка базы данных", "Возникла проблема с базой данных"},
}

// Title is the short human-readable headline for the kind.
func (k Kind) Title() string { return kindMessages[k][0] }

// Text is the human-readable explanation for the kind.
func (k Kind) Text() string { return kindMessages[k][1] }

// Error is returned by every Service operation that fails.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind so errors.Is(err, ErrFileNotFound) works on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	// ErrFileNotFound signals that no record has the requested id.
	ErrFileNotFound = &Error{Kind: KindNotFound}
	// ErrInvalidName signals a name that breaks the filename rules.
	ErrInvalidName = &Error{Kind: KindInvalidName}
	// ErrNameExists signals a uniqueness violation on the record name.
	ErrNameExists = &Error{Kind: KindNameExists}
	// ErrMustBeSame signals a content replacement whose filename differs from the stored name.
	ErrMustBeSame = &Error{Kind: KindMustBeSame}
	// ErrFileTooLarge signals that the upload exceeds the configured ceiling.
	ErrFileTooLarge = &Error{Kind: KindTooLarge}
	// ErrValidation signals malformed input parameters.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrStorage signals an unclassified store failure.
	ErrStorage = &Error{Kind: KindStorage}
)

// KindOf reports the kind carried by err. Unclassified errors are storage failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindStorage
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func validationError(op, format string, args ...any) *Error {
	return newError(KindValidation, op, fmt.Errorf(format, args...))
}

// wrapStore keeps classified store errors and marks everything else as a storage failure.
// A bare sentinel carries no cause of its own, so only its kind is kept.
func wrapStore(op string, err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		if err == error(fe) && fe.Op == "" && fe.Err == nil {
			return newError(fe.Kind, op, nil)
		}
		return newError(fe.Kind, op, err)
	}
	return newError(KindStorage, op, err)
}
