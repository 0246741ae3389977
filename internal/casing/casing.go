// Package casing содержит преобразования имён полей в ключи wire-формата.
package casing

import "strings"

// CamelToSnake преобразует camelCase-идентификатор в snake_case-ключ API.
// Преобразование детерминировано: каждая заглавная латинская буква заменяется
// на подчёркивание и её строчный вариант. На множестве используемых имён полей
// обратное преобразование однозначно.
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
