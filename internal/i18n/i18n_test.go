package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_DefaultLiterals(t *testing.T) {
	assert.Equal(t, "镜像构建完成！", T("zh", KeyBuildComplete))
	assert.Equal(t, "运行以下命令启动应用：", T("zh", KeyRunInstructions))
}

// TestNormalize covers locale-style tags and the fallback to Chinese.
func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"zh", "zh"},
		{"en", "en"},
		{"EN", "en"},
		{"en_US.UTF-8", "en"},
		{"zh-CN", "zh"},
		{" ja ", "ja"},
		{"fr", "zh"},
		{"", "zh"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestT_Fallbacks(t *testing.T) {
	assert.Equal(t, "Image build complete!", T("en", KeyBuildComplete))
	assert.Equal(t, "镜像构建完成！", T("klingon", KeyBuildComplete))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

// TestCatalogsComplete ensures every catalog defines every key the
// default catalog defines.
func TestCatalogsComplete(t *testing.T) {
	for _, lang := range Languages() {
		for key := range catalogs[DefaultLanguage] {
			_, ok := catalogs[lang][key]
			assert.True(t, ok, "catalog %q is missing key %q", lang, key)
		}
	}
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"en", "ja", "ru", "zh"}, Languages())
}
