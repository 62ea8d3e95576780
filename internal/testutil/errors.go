package testutil

import "errors"

// ErrSimulated возвращают тестовые заглушки хранилища, чтобы проверить пути обработки ошибок.
var ErrSimulated = errors.New("simulated storage failure")
