// Package sql предоставляет реализацию репозиториев ссылок и пользователей поверх gorm.
//
// Поддерживаются SQLite, PostgreSQL и MySQL. Все методы репозиториев преобразуют ошибки
// драйверов в общие ошибки уровня репозитория с помощью convertErrorType:
//   - gorm.ErrDuplicatedKey и нарушения уникальности -> repositories.ErrDuplicateKey
//   - gorm.ErrRecordNotFound -> repositories.ErrNotFound
//   - другие ошибки -> repositories.ErrUnknown
package sql
