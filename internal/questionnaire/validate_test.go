package questionnaire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDate(t *testing.T) {
	t.Run("accepts real calendar dates", func(t *testing.T) {
		assert.True(t, IsValidDate("2023-01-15"))
		assert.True(t, IsValidDate("2000-02-29"))
		assert.True(t, IsValidDate("1999-12-31"))
	})

	t.Run("rejects rolled-over calendar dates", func(t *testing.T) {
		// 宽松解析器会把 02-30 滚动到 3 月，往返相等必须拦下
		assert.False(t, IsValidDate("2023-02-30"))
		assert.False(t, IsValidDate("2023-04-31"))
		assert.False(t, IsValidDate("2023-13-01"))
		assert.False(t, IsValidDate("2001-02-29"))
	})

	t.Run("rejects malformed inputs", func(t *testing.T) {
		assert.False(t, IsValidDate(""))
		assert.False(t, IsValidDate("2023/01/15"))
		assert.False(t, IsValidDate("15-01-2023"))
		assert.False(t, IsValidDate("2023-1-5"))
		assert.False(t, IsValidDate("2023-01-15T00:00:00Z"))
		assert.False(t, IsValidDate("not a date"))
	})
}

func TestIsFutureDate(t *testing.T) {
	today := time.Now().UTC().Format(DateLayout)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(DateLayout)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(DateLayout)

	assert.False(t, IsFutureDate(today), "today is not future")
	assert.False(t, IsFutureDate(yesterday))
	assert.True(t, IsFutureDate(tomorrow))
	assert.True(t, IsFutureDate("2099-01-01"))
	assert.False(t, IsFutureDate("1990-06-01"))
}

func TestNormalizeAmount(t *testing.T) {
	t.Run("permissive defaults", func(t *testing.T) {
		assert.Equal(t, float64(0), NormalizeAmount(nil))
		assert.Equal(t, float64(0), NormalizeAmount(""))
		assert.Equal(t, float64(0), NormalizeAmount("   "))
		assert.Equal(t, float64(0), NormalizeAmount("abc"))
		assert.Equal(t, float64(0), NormalizeAmount(-5.0))
		assert.Equal(t, float64(0), NormalizeAmount("-5"))
		assert.Equal(t, float64(0), NormalizeAmount(map[string]any{}))
	})

	t.Run("parses numeric inputs", func(t *testing.T) {
		assert.Equal(t, float64(300000), NormalizeAmount(float64(300000)))
		assert.Equal(t, float64(42.5), NormalizeAmount("42.5"))
		assert.Equal(t, float64(7), NormalizeAmount(7))
		assert.Equal(t, float64(10), NormalizeAmount(" 10 "))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, in := range []any{nil, "", "abc", "-5", 42.5, "42.5", -1.0} {
			once := NormalizeAmount(in)
			assert.Equal(t, once, NormalizeAmount(once))
		}
	})
}

func TestHasInvalidAmountInput(t *testing.T) {
	t.Run("empty inputs are valid", func(t *testing.T) {
		// 与归一化刻意不对称：空输入默认 0，不报错
		assert.False(t, HasInvalidAmountInput(nil))
		assert.False(t, HasInvalidAmountInput(""))
		assert.False(t, HasInvalidAmountInput("   "))
	})

	t.Run("inputs the normalizer silently zeroes are reported", func(t *testing.T) {
		assert.True(t, HasInvalidAmountInput("-5"))
		assert.True(t, HasInvalidAmountInput(-5.0))
		assert.True(t, HasInvalidAmountInput("abc"))
		assert.True(t, HasInvalidAmountInput(true))
		assert.True(t, HasInvalidAmountInput(map[string]any{"x": 1}))
	})

	t.Run("valid numbers pass", func(t *testing.T) {
		assert.False(t, HasInvalidAmountInput(float64(0)))
		assert.False(t, HasInvalidAmountInput("0"))
		assert.False(t, HasInvalidAmountInput("123.45"))
		assert.False(t, HasInvalidAmountInput(9000))
	})
}

func TestTextFormats(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.co"))
	assert.False(t, IsValidEmail("a@b"))
	assert.False(t, IsValidEmail("a b@c.co"))

	assert.True(t, IsValidPhone("+1 (555) 123-4567"))
	assert.False(t, IsValidPhone("123"))
	assert.False(t, IsValidPhone("call me maybe"))

	assert.True(t, IsValidCountryCode("US"))
	assert.False(t, IsValidCountryCode("us"))
	assert.False(t, IsValidCountryCode("USA"))
}
