// Package i18n holds the translated status messages printed after a build.
//
// Chinese is the default language. A language without a catalog, or a
// catalog missing a key, falls back to the default catalog.
package i18n

import (
	"sort"
	"strings"
)

// DefaultLanguage is used when the requested language has no catalog.
const DefaultLanguage = "zh"

// Message keys.
const (
	// KeyBuildComplete is printed once the build step has returned.
	KeyBuildComplete = "build.complete"

	// KeyRunInstructions introduces the `docker run` hint.
	KeyRunInstructions = "run.instructions"
)

var catalogs = map[string]map[string]string{
	"zh": {
		KeyBuildComplete:   "镜像构建完成！",
		KeyRunInstructions: "运行以下命令启动应用：",
	},
	"en": {
		KeyBuildComplete:   "Image build complete!",
		KeyRunInstructions: "Run the following command to start the app:",
	},
	"ja": {
		KeyBuildComplete:   "イメージのビルドが完了しました！",
		KeyRunInstructions: "次のコマンドでアプリを起動してください：",
	},
	"ru": {
		KeyBuildComplete:   "Сборка образа завершена!",
		KeyRunInstructions: "Выполните следующую команду, чтобы запустить приложение:",
	},
}

// Normalize maps a user-supplied language tag such as "en_US.UTF-8" or
// "zh-CN" to a catalog name, falling back to DefaultLanguage.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_."); i >= 0 {
		lang = lang[:i]
	}
	if _, ok := catalogs[lang]; ok {
		return lang
	}
	return DefaultLanguage
}

// T returns the message for key in lang. Unknown keys return the key itself.
func T(lang, key string) string {
	if msg, ok := catalogs[Normalize(lang)][key]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// Languages returns the available catalog names, sorted.
func Languages() []string {
	langs := make([]string, 0, len(catalogs))
	for lang := range catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
