package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRubles(t *testing.T) {
	assert.Equal(t, "93 808 ₽", FormatRubles(93808.4))
	assert.Equal(t, "1 000 000 ₽", FormatRubles(999999.6))
	assert.Equal(t, "500 ₽", FormatRubles(500))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "16 000", FormatNumber(16000))
	assert.Equal(t, "-1 200", FormatNumber(-1200))
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Опыт работы грузчиком от 1 года", StripMarkup("Опыт работы <highlighttext>грузчиком</highlighttext> от 1 года"))
	assert.Equal(t, "plain text", StripMarkup("  plain text "))
	assert.Equal(t, "", StripMarkup(""))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "Инспектор...", TruncateString("Инспектор Перронного Контроля", 12))
	assert.Equal(t, "short", TruncateString("short", 10))
}

func TestNormalizeCompanyName(t *testing.T) {
	assert.Equal(t, "яндекс лавка", NormalizeCompanyName("ООО «Яндекс Лавка»"))
	assert.Equal(t, "т банк", NormalizeCompanyName("Т-Банк"))
	assert.Equal(t, NormalizeCompanyName("Burger King"), NormalizeCompanyName("burger  king."))
}
