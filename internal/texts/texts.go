// Package texts provides the reference text library.
package texts

import (
	"errors"
	"fmt"
	"strings"
)

// Languages understood by the library.
const (
	LangEnglish = "english"
	LangArabic  = "arabic"
)

// Difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ErrNoTexts is returned when no text matches the requested selection.
var ErrNoTexts = errors.New("no texts available")

// Text is a single reference text entry.
type Text struct {
	ID         string
	Text       string
	Difficulty string
	Custom     bool
}

// NormalizeLang resolves a language code or name to a canonical language.
func NormalizeLang(lang string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "eng", LangEnglish:
		return LangEnglish, nil
	case "ar", "ara", LangArabic:
		return LangArabic, nil
	default:
		return "", fmt.Errorf("unknown language %q (available: english, arabic)", lang)
	}
}

// NormalizeDifficulty validates a difficulty name.
func NormalizeDifficulty(difficulty string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return strings.ToLower(strings.TrimSpace(difficulty)), nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (available: beginner, intermediate, advanced)", difficulty)
	}
}

// Difficulties lists the supported difficulty levels in ascending order.
func Difficulties() []string {
	return []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

func langPrefix(lang string) string {
	if lang == LangArabic {
		return "ar"
	}
	return "en"
}

var builtin = map[string]map[string][]string{
	LangEnglish: {
		DifficultyBeginner: {
			"The quick brown fox jumps over the lazy dog",
			"Practice makes perfect",
			"Hello world welcome to typing",
			"Learning to type is fun",
			"Speed and accuracy matter",
		},
		DifficultyIntermediate: {
			"Education is the most powerful weapon which you can use to change the world",
			"Success is not final failure is not fatal it is the courage to continue that counts",
			"The only way to do great work is to love what you do",
			"Believe you can and you are halfway there",
			"The future belongs to those who believe in the beauty of their dreams",
		},
		DifficultyAdvanced: {
			"In the midst of chaos there is also opportunity and the wise man will find a way to turn obstacles into stepping stones",
			"The greatest glory in living lies not in never falling but in rising every time we fall",
			"Life is what happens when you are busy making other plans so embrace the unexpected",
			"The only impossible journey is the one you never begin so take that first step today",
			"Knowledge is power information is liberating education is the premise of progress in every society",
		},
	},
	LangArabic: {
		DifficultyBeginner: {
			"السلام عليكم ورحمة الله وبركاته",
			"الحمد لله رب العالمين",
			"بسم الله الرحمن الرحيم",
			"العلم نور والجهل ظلام",
			"الصبر مفتاح الفرج",
		},
		DifficultyIntermediate: {
			"التعليم هو السلاح الأقوى الذي يمكنك استخدامه لتغيير العالم",
			"النجاح ليس نهاية والفشل ليس قاتلا إنها الشجاعة للاستمرار هي التي تهم",
			"الطريق إلى النجاح دائما تحت الإنشاء",
			"لا تقل أبدا أنك لا تستطيع فعل شيء ما قبل أن تحاول",
			"القراءة تصنع إنسانا كاملا والمناقشة تصنع إنسانا مستعدا والكتابة تصنع إنسانا دقيقا",
		},
		DifficultyAdvanced: {
			"إن الذين آمنوا وعملوا الصالحات كانت لهم جنات الفردوس نزلا خالدين فيها لا يبغون عنها حولا",
			"العلم في الصغر كالنقش على الحجر والعلم في الكبر كالنقش على الماء فاغتنم فرصة التعلم في شبابك",
			"إذا أردت أن تكون ناجحا فعليك أن تحترم قاعدة واحدة لا تكذب أبدا على نفسك",
			"الحياة مثل ركوب الدراجة للحفاظ على توازنك يجب أن تستمر في التحرك",
			"المعرفة قوة والمعلومات حرية والتعليم هو مقدمة التقدم في كل مجتمع وفي كل عائلة",
		},
	},
}

// Builtin returns the built-in texts for a language and difficulty.
func Builtin(lang, difficulty string) []Text {
	levels, ok := builtin[lang]
	if !ok {
		return nil
	}
	raw, ok := levels[difficulty]
	if !ok {
		return nil
	}
	prefix := langPrefix(lang)
	out := make([]Text, 0, len(raw))
	for i, text := range raw {
		out = append(out, Text{
			ID:         fmt.Sprintf("%s_%s_%03d", prefix, difficulty[:1], i+1),
			Text:       text,
			Difficulty: difficulty,
		})
	}
	return out
}
