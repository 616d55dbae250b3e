package tts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-playground/assert/v2"
)

func TestPlaintextStripsMarkdown(t *testing.T) {
	markdown := "# 市场情绪 📈\n\n比特币突破 [98,000美元](https://example.com/btc)，资金**持续流入**。\n\n- 美联储或暂停降息\n- 英伟达财报临近"

	got := Plaintext(markdown)

	assert.Equal(t, false, strings.Contains(got, "#"))
	assert.Equal(t, false, strings.Contains(got, "**"))
	assert.Equal(t, false, strings.Contains(got, "https://example.com/btc"))
	assert.Equal(t, false, strings.Contains(got, "["))

	assert.Equal(t, true, strings.Contains(got, "市场情绪"))
	assert.Equal(t, true, strings.Contains(got, "98,000美元"))
	assert.Equal(t, true, strings.Contains(got, "持续流入"))
	assert.Equal(t, true, strings.Contains(got, "美联储或暂停降息"))
}

func TestPlaintextEmptyInput(t *testing.T) {
	assert.Equal(t, "", Plaintext(""))
	assert.Equal(t, "", Plaintext("   \n\n  "))
}

func TestTruncateRunesKeepsShortStrings(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
}

func TestTruncateRunesDoesNotSplitMultibyte(t *testing.T) {
	s := strings.Repeat("市", 50)

	got := truncateRunes(s, 10)

	assert.Equal(t, 10, utf8.RuneCountInString(got))
	assert.Equal(t, true, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("市", 10), got)
}

func TestPrepareSpeechTextRespectsBudget(t *testing.T) {
	long := strings.Repeat("市场情绪高涨。", 1000)

	got := PrepareSpeechText(long)

	assert.Equal(t, true, utf8.RuneCountInString(got) <= MaxSpeechChars)
	assert.Equal(t, true, utf8.ValidString(got))
}
