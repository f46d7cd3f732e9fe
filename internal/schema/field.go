// Package schema реализует декларативное описание запросов: схема — это
// упорядоченный список объявлений полей (имя, required, nullable, правило),
// который интерпретируется общими функциями Bind и Validate.
package schema

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Классы ошибок валидации, проверяются через errors.Is.
var (
	// ErrTypeMismatch — значение имеет неверный JSON-тип.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrValueInvalid — тип верный, но содержимое не проходит проверку формата или диапазона.
	ErrValueInvalid = errors.New("invalid value")
	// ErrMissingRequired — обязательное поле не передано в запросе.
	ErrMissingRequired = errors.New("missing required field")
)

// Rule проверяет одно сырое значение поля. Отсутствующие значения и явный
// null до правила не доходят — их обрабатывает Bind.
type Rule func(value any) error

// Коды пола.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

const daysPerYear = 365.24

var (
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	phoneRe = regexp.MustCompile(`^7\d{10}$`)
	dateRe  = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

// Text принимает любое строковое значение, включая пустую строку.
func Text() Rule {
	return func(value any) error {
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected %v to be a string: %w", value, ErrTypeMismatch)
		}
		return nil
	}
}

// Arguments принимает JSON-объект (словарь аргументов метода).
func Arguments() Rule {
	return func(value any) error {
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected %v to be an object: %w", value, ErrTypeMismatch)
		}
		return nil
	}
}

// Email — строка вида local@domain.tld: ровно один @ и хотя бы одна точка после него.
func Email() Rule {
	text := Text()
	return func(value any) error {
		if err := text(value); err != nil {
			return err
		}
		if !emailRe.MatchString(value.(string)) {
			return fmt.Errorf("invalid email %q: %w", value, ErrValueInvalid)
		}
		return nil
	}
}

// Phone — либо 11-символьная строка из цифр, начинающаяся с 7, либо целое
// число в диапазоне [70000000000, 79999999999].
func Phone() Rule {
	return func(value any) error {
		switch v := value.(type) {
		case string:
			if !phoneRe.MatchString(v) {
				return fmt.Errorf("expected %q to be an 11-digit string starting with 7: %w", v, ErrValueInvalid)
			}
		case float64:
			if v != math.Trunc(v) || v < 70_000_000_000 || v > 79_999_999_999 {
				return fmt.Errorf("expected %v to be an 11-digit number starting with 7: %w", v, ErrValueInvalid)
			}
		default:
			return fmt.Errorf("expected %v to be a string or a number: %w", value, ErrTypeMismatch)
		}
		return nil
	}
}

// Date проверяет только форму dd.mm.yyyy. Календарная корректность
// (например 31.02) не проверяется — контракт фиксирует проверку формы.
func Date() Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected %v to be a string: %w", value, ErrTypeMismatch)
		}
		if !dateRe.MatchString(s) {
			return fmt.Errorf("expected %q to be a date in format dd.mm.yyyy: %w", s, ErrValueInvalid)
		}
		return nil
	}
}

// Birthday — Date плюс ограничение возраста: целых дней от даты рождения,
// делённых на 365.24, должно быть не больше maxAge.
func Birthday(maxAge int) Rule {
	date := Date()
	return func(value any) error {
		if err := date(value); err != nil {
			return err
		}
		bd, err := ParseDate(value.(string))
		if err != nil {
			return err
		}
		age := time.Since(bd).Hours() / 24 / daysPerYear
		if age > float64(maxAge) {
			return fmt.Errorf("expected %q to be not more than %d years old: %w", value, maxAge, ErrValueInvalid)
		}
		return nil
	}
}

// Gender — одно из чисел 0 (unknown), 1 (male), 2 (female).
func Gender() Rule {
	return func(value any) error {
		v, ok := value.(float64)
		if !ok || v != math.Trunc(v) || v < GenderUnknown || v > GenderFemale {
			return fmt.Errorf("expected one of [0, 1, 2], got %v: %w", value, ErrValueInvalid)
		}
		return nil
	}
}

// ClientIDs — список целых чисел длиной не меньше minSize.
func ClientIDs(minSize int) Rule {
	return func(value any) error {
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected %v to be a list: %w", value, ErrTypeMismatch)
		}
		if len(items) < minSize {
			return fmt.Errorf("expected client_ids to have at least %d items: %w", minSize, ErrValueInvalid)
		}
		for _, item := range items {
			n, ok := item.(float64)
			if !ok || n != math.Trunc(n) {
				return fmt.Errorf("expected client id %v to be an integer: %w", item, ErrTypeMismatch)
			}
		}
		return nil
	}
}

// ParseDate разбирает дату вида dd.mm.yyyy, уже прошедшую Date-правило.
// Невозможные календарные значения нормализуются средствами time.Date.
func ParseDate(s string) (time.Time, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("expected %q to be a date in format dd.mm.yyyy: %w", s, ErrValueInvalid)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
