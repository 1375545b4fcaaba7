package ui

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func init() {
	pterm.DisableStyling()
}

func TestColorizeSalary(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"above market", 80000, "80 000 ₽"},
		{"in market", 60000, "60 000 ₽"},
		{"below market", 30000, "30 000 ₽"},
		{"missing", 0, "нет данных"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorizeSalary(tt.value, 50000, 70000))
		})
	}
}

func TestFormatURL(t *testing.T) {
	url := "https://hh.ru/oauth/authorize?client_id=x"
	assert.Equal(t, url, FormatURL(url, "open", false))
	assert.Equal(t, url, FormatURL(url, "", true))
	assert.Equal(t, "\033]8;;"+url+"\aopen\033]8;;\a", FormatURL(url, "open", true))
}

func TestColorizeTextShortInput(t *testing.T) {
	assert.Equal(t, "x", ColorizeText("x"))
	assert.Equal(t, "", ColorizeText(""))
}
